package domain

import "io"

type FileMeta struct {
	Name          string
	ContentLength int64
}

type File struct {
	Meta FileMeta
	Body io.ReadCloser
}

// Part is a single named file field of an upload request.
type Part struct {
	Filename string
	Body     io.Reader
}
