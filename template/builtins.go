package template

import (
	"html"
	"io"
	"strconv"
	"time"

	"github.com/spirefy/go-hcv/types"
)

const (
	dateLayout = "2006, Jan, 02"
	nowLayout  = "Mon Jan _2 15:04:05 2006 MST"
)

// RegisterBuiltins seeds r with the date, now and request_number expanders. clock may be nil for time.Now.
func RegisterBuiltins(r *Registry, clock func() time.Time) {
	if clock == nil {
		clock = time.Now
	}

	r.MustRegister("date", func(t types.Target, _ types.Instruction) {
		writeEscaped(t.Output(), clock().Local().Format(dateLayout))
	})

	r.MustRegister("now", func(t types.Target, _ types.Instruction) {
		writeEscaped(t.Output(), clock().Local().Format(nowLayout))
	})

	r.MustRegister("request_number", func(t types.Target, _ types.Instruction) {
		writeEscaped(t.Output(), strconv.FormatInt(t.Serial(), 10))
	})
}

func writeEscaped(w io.Writer, s string) {
	_, _ = io.WriteString(w, html.EscapeString(s))
}
