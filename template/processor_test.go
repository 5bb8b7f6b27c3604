package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"pgregory.net/rapid"

	"github.com/spirefy/go-hcv/types"
)

var fixedClock = func() time.Time {
	return time.Date(2020, time.March, 15, 10, 30, 0, 0, time.Local)
}

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newBuiltinRegistry() *Registry {
	reg := NewRegistry(nil)
	RegisterBuiltins(reg, fixedClock)
	return reg
}

func TestExpandFile_RequestNumber(t *testing.T) {
	reg := newBuiltinRegistry()
	path := writeTemplate(t, "Hello <?hcv request_number?> world")

	out, err := reg.ExpandFile(path, newFakeTarget(42))
	require.NoError(t, err)
	assert.Equal(t, "Hello 42 world\n", out)
}

func TestExpandFile_Builtins(t *testing.T) {
	reg := newBuiltinRegistry()
	path := writeTemplate(t, "<p><?hcv date?></p>\n<p><?hcv now?></p>\n")

	out, err := reg.ExpandFile(path, newFakeTarget(1))
	require.NoError(t, err)
	assert.Equal(t, "<p>2020, Mar, 15</p>\n<p>"+fixedClock().Format(nowLayout)+"</p>\n\n", out)
}

func TestExpandFile_UnterminatedMarkupIsCopied(t *testing.T) {
	reg, logs := newObservedRegistry()
	RegisterBuiltins(reg, fixedClock)
	path := writeTemplate(t, "A <?hcv date incomplete")

	out, err := reg.ExpandFile(path, newFakeTarget(1))
	require.NoError(t, err)
	assert.Equal(t, "A <?hcv date incomplete\n", out)

	warnings := logs.FilterMessage("line has unclosed template markup").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(1), warnings[0].ContextMap()["line"])
}

func TestExpandFile_UnknownTagContributesNothing(t *testing.T) {
	reg, logs := newObservedRegistry()
	path := writeTemplate(t, "x<?hcv nosuch some args?>y")

	out, err := reg.ExpandFile(path, newFakeTarget(1))
	require.NoError(t, err)
	assert.Equal(t, "xy\n", out)
	assert.Equal(t, 1, logs.FilterMessage("unknown expander tag").Len())
}

func TestExpandFile_SeveralInstructionsPerLine(t *testing.T) {
	reg := NewRegistry(nil)
	var got []types.Instruction
	reg.MustRegister("echo", func(t types.Target, instr types.Instruction) {
		got = append(got, instr)
		t.Output().Write([]byte("[" + instr.Arg + "]"))
	})

	path := writeTemplate(t, "first line\n<?hcv echo one?> and <?hcv echo  two words ?>, <?hcv echo three")

	out, err := reg.ExpandFile(path, newFakeTarget(1))
	require.NoError(t, err)
	assert.Equal(t, "first line\n[one] and [two words ], <?hcv echo three\n", out)

	require.Len(t, got, 2)
	assert.Equal(t, "<?hcv echo one?>", got[0].Raw)
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, int64(len("first line\n")), got[0].Offset)
	assert.Equal(t, filepath.Base(got[1].File), "page.html")
}

func TestExpandFile_InvalidInstructionIsDropped(t *testing.T) {
	reg, logs := newObservedRegistry()
	path := writeTemplate(t, "a<?hcv  ?>b<?hcv -x?>c")

	out, err := reg.ExpandFile(path, newFakeTarget(1))
	require.NoError(t, err)
	assert.Equal(t, "abc\n", out)
	assert.Equal(t, 2, logs.FilterMessage("invalid processing instruction").FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestExpandFile_Idempotent(t *testing.T) {
	reg := newBuiltinRegistry()
	path := writeTemplate(t, "<html>\n<b><?hcv request_number?></b> <?hcv date?>\n</html>\n")

	first, err := reg.ExpandFile(path, newFakeTarget(7))
	require.NoError(t, err)
	second, err := reg.ExpandFile(path, newFakeTarget(7))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExpandFile_DoesNotWriteToTargetSink(t *testing.T) {
	reg := newBuiltinRegistry()
	target := newFakeTarget(5)
	path := writeTemplate(t, "n=<?hcv request_number?>")

	out, err := reg.ExpandFile(path, target)
	require.NoError(t, err)
	assert.Equal(t, "n=5\n", out)
	assert.Zero(t, target.out.Len())
}

func TestExpandFile_EscapesExpanderOutput(t *testing.T) {
	reg := NewRegistry(nil)
	reg.MustRegister("user", func(t types.Target, instr types.Instruction) {
		writeEscaped(t.Output(), instr.Arg)
	})
	path := writeTemplate(t, "<?hcv user <script>?>")

	out, err := reg.ExpandFile(path, newFakeTarget(1))
	require.NoError(t, err)
	assert.Equal(t, "&lt;script&gt;\n", out)
}

func TestExpandFile_Errors(t *testing.T) {
	reg := newBuiltinRegistry()
	dir := t.TempDir()

	_, err := reg.ExpandFile(filepath.Join(dir, "missing.html"), newFakeTarget(1))
	require.ErrorIs(t, err, ErrBadSource)

	_, err = reg.ExpandFile(dir, newFakeTarget(1))
	require.ErrorIs(t, err, ErrBadSource)

	big := writeTemplate(t, strings.Repeat("x", MaxTemplateSize+1))
	_, err = reg.ExpandFile(big, newFakeTarget(1))
	require.ErrorIs(t, err, ErrTooLarge)

	ok := writeTemplate(t, "fine")
	_, err = reg.ExpandFile(ok, nil)
	require.ErrorIs(t, err, ErrNoTarget)
}

func TestExpandFile_MaxSizeAccepted(t *testing.T) {
	reg := newBuiltinRegistry()
	path := writeTemplate(t, strings.Repeat("x", MaxTemplateSize))

	out, err := reg.ExpandFile(path, newFakeTarget(1))
	require.NoError(t, err)
	assert.Len(t, out, MaxTemplateSize+1)
}

func TestExpandFile_LiteralTextRoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 <>?/\n]{0,200}`).
			Filter(func(s string) bool { return !strings.Contains(s, StartToken) }).
			Draw(rt, "text")

		dir, err := os.MkdirTemp("", "hcv-template")
		require.NoError(rt, err)
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "t.html")
		require.NoError(rt, os.WriteFile(path, []byte(text), 0o644))

		out, err := NewRegistry(nil).ExpandFile(path, newFakeTarget(1))
		require.NoError(rt, err)
		require.Equal(rt, text+"\n", out)
	})
}

func TestParseInstruction(t *testing.T) {
	loc := types.Location{File: "f.html", Line: 3, Offset: 40}

	instr, ok := parseInstruction("<?hcv date?>", loc)
	require.True(t, ok)
	assert.Equal(t, "date", instr.Tag)
	assert.Empty(t, instr.Arg)
	assert.Equal(t, loc, instr.Location)

	instr, ok = parseInstruction("<?hcv link  href=\"/a\" ?>", loc)
	require.True(t, ok)
	assert.Equal(t, "link", instr.Tag)
	assert.Equal(t, "href=\"/a\" ", instr.Arg)

	long := strings.Repeat("a", MaxTagLen+3)
	instr, ok = parseInstruction("<?hcv "+long+"?>", loc)
	require.True(t, ok)
	assert.Len(t, instr.Tag, MaxTagLen)
	assert.Equal(t, "aaa", instr.Arg)

	_, ok = parseInstruction("<?hcv ?>", loc)
	assert.False(t, ok)
}
