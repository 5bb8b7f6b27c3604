package template

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spirefy/go-hcv/types"
)

const (
	// MaxTemplateSize bounds the size of a template source file. Templates are hand written.
	MaxTemplateSize = 128 * 1024

	StartToken = "<?hcv "
	EndToken   = "?>"
)

// bufferedTarget routes expander output into the buffer of the render in progress.
type bufferedTarget struct {
	types.Target
	out io.Writer
}

func (b bufferedTarget) Output() io.Writer {
	return b.out
}

// ExpandFile
//
// Renders the template source file at path for t. Literal text is copied as is, line terminators included, and
// every <?hcv tag arg?> on a line is replaced by whatever its expander writes. A single newline ends the result.
//
// A missing target, a path that is not a regular file and a file above MaxTemplateSize are errors. Markup left open
// at the end of a line is logged and copied through as text.
func (r *Registry) ExpandFile(path string, t types.Target) (string, error) {
	if t == nil || t.Kind() == types.TargetNone {
		return "", fmt.Errorf("%w: expanding %s", ErrNoTarget, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadSource, err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrBadSource, path)
	}

	if info.Size() > MaxTemplateSize {
		return "", fmt.Errorf("%w: %s has %d bytes", ErrTooLarge, path, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadSource, err)
	}
	defer f.Close()

	var out bytes.Buffer
	out.Grow(int(info.Size()) + 1)
	target := bufferedTarget{Target: t, out: &out}

	rd := bufio.NewReader(f)
	var offset int64
	lineno := 0
	for {
		line, rerr := rd.ReadString('\n')
		if len(line) > 0 {
			lineno++
			body := strings.TrimSuffix(line, "\n")
			loc := types.Location{File: path, Line: lineno, Offset: offset}
			if err := r.expandLine(target, &out, body, loc); err != nil {
				return "", err
			}
			out.WriteString(line[len(body):])
			offset += int64(len(line))
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", fmt.Errorf("%w: reading %s: %w", ErrBadSource, path, rerr)
		}
	}

	out.WriteByte('\n')
	return out.String(), nil
}

// expandLine scans one line, without its terminator, left to right.
func (r *Registry) expandLine(t types.Target, out *bytes.Buffer, line string, loc types.Location) error {
	for line != "" {
		start := strings.Index(line, StartToken)
		if start < 0 {
			break
		}
		out.WriteString(line[:start])
		line = line[start:]

		end := strings.Index(line[len(StartToken):], EndToken)
		if end < 0 {
			r.logger.Warn("line has unclosed template markup",
				zap.String("file", loc.File),
				zap.Int("line", loc.Line),
				zap.String("text", line))
			break
		}

		raw := line[:len(StartToken)+end+len(EndToken)]
		line = line[len(raw):]

		instr, ok := parseInstruction(raw, loc)
		if !ok {
			r.logger.Warn("invalid processing instruction",
				zap.String("instruction", raw),
				zap.String("file", loc.File),
				zap.Int("line", loc.Line),
				zap.Int64("offset", loc.Offset))
			continue
		}

		if err := r.Dispatch(t, instr); err != nil {
			return err
		}
	}

	out.WriteString(line)
	return nil
}

// parseInstruction splits a complete <?hcv ...?> markup into its tag and argument. The tag is the run of letters,
// digits and underscores right after the start token, capped at MaxTagLen; blanks after it are not part of the
// argument.
func parseInstruction(raw string, loc types.Location) (types.Instruction, bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(raw, StartToken), EndToken)

	n := 0
	for n < len(body) && n < MaxTagLen && isTagByte(body[n]) {
		n++
	}
	if n == 0 {
		return types.Instruction{}, false
	}

	return types.Instruction{
		Tag:      body[:n],
		Arg:      strings.TrimLeft(body[n:], " \t"),
		Raw:      raw,
		Location: loc,
	}, true
}
