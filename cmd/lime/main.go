package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/erinpentecost/lime/internal/imageio"
	"github.com/erinpentecost/lime/internal/lime"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

var (
	configPath   = pflag.String("config", "", "YAML parameter file; flags given explicitly override it")
	gamma        = pflag.Float64("gamma", 0.8, "gamma applied to the refined illumination map")
	alpha        = pflag.Float64("alpha", 0.15, "refinement strength; 0 disables refinement")
	mode         = pflag.String("mode", string(lime.ModeOptimization), "refinement mode: optimization or filter")
	iterations   = pflag.Int("iterations", 200, "maximum solver iterations in optimization mode")
	radius       = pflag.Int("radius", 3, "guided filter and Gaussian window radius")
	strategy     = pflag.Int("strategy", 3, "edge weight strategy: 1 uniform, 2 inverse gradient, 3 smoothed inverse gradient")
	denoise      = pflag.Bool("denoise", false, "smooth amplified noise in dark regions")
	dehazeFirst  = pflag.Bool("dehaze", false, "remove haze with the dark channel prior before enhancing")
	defogFirst   = pflag.Bool("defog", false, "like --dehaze, then restore local contrast of the dehazed brightness")
	threads      = pflag.Int("threads", runtime.GOMAXPROCS(0), "number of files processed at once")
	outDir       = pflag.String("out-dir", "", "output directory; defaults to next to each input")
	suffix       = pflag.String("suffix", "_lime", "appended to each output file name")
	format       = pflag.String("format", "", "output extension such as .png; defaults to the input extension")
	illumination = pflag.Bool("illumination", false, "also write the corrected illumination map as a grayscale image")
	maxSize      = pflag.Int("max-size", 0, "downscale inputs so no side exceeds this many pixels; 0 keeps the size")
)

// parameters builds the pipeline configuration: defaults, then the config
// file, then any flag set on the command line.
func parameters(flags *pflag.FlagSet) (lime.Parameters, error) {
	params := lime.DefaultParameters()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			return lime.Parameters{}, fmt.Errorf("open config %q: %w", *configPath, err)
		}
		defer f.Close()
		params, err = lime.LoadParameters(f)
		if err != nil {
			return lime.Parameters{}, fmt.Errorf("load config %q: %w", *configPath, err)
		}
	}
	if flags.Changed("gamma") {
		params.Gamma = *gamma
	}
	if flags.Changed("alpha") {
		params.Alpha = *alpha
	}
	if flags.Changed("mode") {
		params.Mode = lime.RefineMode(*mode)
	}
	if flags.Changed("iterations") {
		params.Iterations = *iterations
	}
	if flags.Changed("radius") {
		params.Radius = *radius
	}
	if flags.Changed("strategy") {
		params.Strategy = lime.WeightStrategy(*strategy)
	}
	if flags.Changed("denoise") {
		params.Denoise = *denoise
	}
	// files already run concurrently
	params.Workers = 1
	return params, params.Validate()
}

func run(ctx context.Context, files []string, params lime.Parameters) error {
	jobs := make([]*enhanceJob, 0, len(files))
	for _, file := range files {
		if !imageio.Supported(file) {
			return fmt.Errorf("%q is not a supported image, want one of %v", file, imageio.Extensions)
		}
		jobs = append(jobs, &enhanceJob{
			Input:        file,
			Output:       outputPath(file, *outDir, *suffix, *format),
			Params:       params,
			Dehaze:       *dehazeFirst,
			Defog:        *defogFirst,
			Illumination: *illumination,
			MaxSize:      *maxSize,
		})
	}

	fmt.Printf("Enhancing %d images...\n", len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, *threads))
	for _, job := range jobs {
		g.Go(func() error { return job.Run(gctx) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Printf("Done enhancing %d images.\n", len(jobs))
	return nil
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] image...\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	params, err := parameters(pflag.CommandLine)
	if err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(33)
	}
	if err := run(context.Background(), pflag.Args(), params); err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(33)
	}
}
