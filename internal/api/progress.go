package api

import "io"

// ProgressFunc receives fractional upload progress: a percentage in [0,100]
// plus the raw byte counts. It may be invoked zero or more times before the
// request completes.
type ProgressFunc func(percent int, loaded, total int64)

// progressReader reports bytes consumed from the request body to a callback.
// The transport reads the body as it streams the request, so ticks track
// actual upload progress the same way an XHR progress event would.
type progressReader struct {
	r          io.Reader
	total      int64
	loaded     int64
	onProgress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, onProgress ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, onProgress: onProgress}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.loaded += int64(n)
		if pr.onProgress != nil && pr.total > 0 {
			percent := int(pr.loaded * 100 / pr.total)
			if percent > 100 {
				percent = 100
			}
			pr.onProgress(percent, pr.loaded, pr.total)
		}
	}
	return n, err
}
