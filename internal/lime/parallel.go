package lime

import "sync"

// forRows splits [0,h) into at most workers contiguous bands and runs fn on
// each. fn must only write to rows inside its band.
func forRows(h, workers int, fn func(y0, y1 int)) {
	if workers <= 1 || h < 2*workers {
		fn(0, h)
		return
	}
	band := (h + workers - 1) / workers

	var wg sync.WaitGroup
	for y0 := 0; y0 < h; y0 += band {
		wg.Go(func() {
			fn(y0, min(h, y0+band))
		})
	}
	wg.Wait()
}
