package web

import (
	"io"
	"net/http"

	"github.com/spirefy/go-hcv/types"
)

// Target is the render target of one HTTP request.
type Target struct {
	serial int64
	req    *http.Request
	resp   http.ResponseWriter
}

var _ types.Target = (*Target)(nil)

func NewTarget(serial int64, w http.ResponseWriter, r *http.Request) *Target {
	return &Target{serial: serial, req: r, resp: w}
}

func (t *Target) Kind() types.TargetKind {
	return types.TargetHTTP
}

func (t *Target) Serial() int64 {
	return t.serial
}

// Output is the response body.
func (t *Target) Output() io.Writer {
	return t.resp
}

func (t *Target) Request() *http.Request {
	return t.req
}

func (t *Target) Response() http.ResponseWriter {
	return t.resp
}
