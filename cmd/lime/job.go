package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/erinpentecost/lime/internal/dehaze"
	"github.com/erinpentecost/lime/internal/imageio"
	"github.com/erinpentecost/lime/internal/lime"
)

type enhanceJob struct {
	Input        string
	Output       string
	Params       lime.Parameters
	Dehaze       bool
	Defog        bool
	Illumination bool
	MaxSize      int
}

// outputPath places the result of input in dir (or next to input) with
// suffix added before the extension. ext replaces the input extension when
// set.
func outputPath(input, dir, suffix, ext string) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	if ext == "" {
		ext = filepath.Ext(input)
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+suffix+ext)
}

// illuminationPath is where the illumination map of a job is written.
func illuminationPath(output string) string {
	ext := filepath.Ext(output)
	if strings.EqualFold(ext, ".jpg") || strings.EqualFold(ext, ".jpeg") {
		// keep the map lossless
		ext = ".png"
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "_illumination" + ext
}

func (j *enhanceJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Printf("Enhancing %q...\n", j.Input)

	src, err := imageio.Load(j.Input)
	if err != nil {
		return err
	}
	if j.MaxSize > 0 {
		src = imageio.Shrink(src, j.MaxSize)
	}
	img, err := lime.ImageFromStd(src)
	if err != nil {
		return fmt.Errorf("convert %q: %w", j.Input, err)
	}

	switch {
	case j.Defog:
		res, err := dehaze.New().Defog(img)
		if err != nil {
			return fmt.Errorf("defog %q: %w", j.Input, err)
		}
		img = res.Image
	case j.Dehaze:
		res, err := dehaze.New().Dehaze(img)
		if err != nil {
			return fmt.Errorf("dehaze %q: %w", j.Input, err)
		}
		img = res.Image
	}

	pipeline, err := lime.NewPipeline(j.Params)
	if err != nil {
		return err
	}
	out, err := pipeline.Enhance(img)
	if err != nil {
		return fmt.Errorf("enhance %q: %w", j.Input, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := imageio.Save(j.Output, out); err != nil {
		return err
	}

	if j.Illumination {
		m, err := pipeline.Illumination()
		if err != nil {
			return fmt.Errorf("illumination %q: %w", j.Input, err)
		}
		if err := imageio.Save(illuminationPath(j.Output), m.Gray()); err != nil {
			return err
		}
	}
	fmt.Printf("Wrote %q.\n", j.Output)
	return nil
}
