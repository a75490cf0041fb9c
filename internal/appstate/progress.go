package appstate

import "io"

type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(int)
}

// seekingProgressReader keeps the wrapped reader's io.Seeker visible so
// stores that need a rewindable body can stream it instead of buffering.
type seekingProgressReader struct {
	*progressReader
	s io.Seeker
}

// NewProgressReader wraps r and calls report with the percentage of total
// read so far whenever it changes. The result is an io.ReadSeeker when r
// is one.
func NewProgressReader(r io.Reader, total int64, report func(int)) io.Reader {
	p := &progressReader{r: r, total: total, last: -1, report: report}
	if s, ok := r.(io.Seeker); ok {
		return &seekingProgressReader{progressReader: p, s: s}
	}
	return p
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		pct := int(min(p.read*100/p.total, 100))
		if pct != p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}

// Seek moves the underlying reader and restarts progress accounting from
// the new offset. Nothing is reported until the next Read.
func (p *seekingProgressReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.s.Seek(offset, whence)
	if err != nil {
		return pos, err
	}
	p.read = pos
	p.last = -1
	return pos, nil
}
