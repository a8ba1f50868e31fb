package dataset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOps struct {
	calls      []string
	importPath string
	err        error
}

func (f *fakeOps) Clean(ctx context.Context) error {
	f.calls = append(f.calls, "clean")
	return f.err
}

func (f *fakeOps) Generate(ctx context.Context) (*GenerateReport, error) {
	f.calls = append(f.calls, "generate")
	return &GenerateReport{Subjects: 10, Doctors: 8, Listings: 12}, f.err
}

func (f *fakeOps) ExportJSON(ctx context.Context, path string) (*Document, error) {
	f.calls = append(f.calls, "export:"+path)
	return &Document{}, f.err
}

func (f *fakeOps) ImportJSON(ctx context.Context, path string) (*SnapshotReport, error) {
	f.calls = append(f.calls, "import")
	f.importPath = path
	return &SnapshotReport{}, f.err
}

func (f *fakeOps) Statistics(ctx context.Context) (*Statistics, error) {
	f.calls = append(f.calls, "stats")
	return &Statistics{Listings: 12, AvgService: decimal.NewFromInt(5)}, f.err
}

func (f *fakeOps) FullPipeline(ctx context.Context, path string) (*Statistics, error) {
	f.calls = append(f.calls, "pipeline:"+path)
	return &Statistics{}, f.err
}

func runMenu(t *testing.T, ops Operations, input string) string {
	t.Helper()
	var out strings.Builder
	err := NewMenu(ops, strings.NewReader(input), &out, "").Run(context.Background())
	require.NoError(t, err)
	return out.String()
}

func TestMenu_DispatchesChoices(t *testing.T) {
	ops := &fakeOps{}

	out := runMenu(t, ops, "1\n2\n3\n5\n6\n0\n")

	assert.Equal(t, []string{
		"clean",
		"generate",
		"export:" + DefaultSnapshotFile,
		"stats",
		"pipeline:" + DefaultSnapshotFile,
	}, ops.calls)
	assert.Contains(t, out, "診所列表數量: 12")
	assert.Contains(t, out, "再見！")
}

func TestMenu_ImportUsesDefaultOnEmptyName(t *testing.T) {
	ops := &fakeOps{}

	runMenu(t, ops, "4\n\n0\n")
	assert.Equal(t, DefaultSnapshotFile, ops.importPath)

	runMenu(t, ops, "4\nbackup.json\n0\n")
	assert.Equal(t, "backup.json", ops.importPath)
}

func TestMenu_InvalidChoiceReprompts(t *testing.T) {
	ops := &fakeOps{}

	out := runMenu(t, ops, "9\n0\n")

	assert.Contains(t, out, "無效選擇，請重新輸入")
	assert.Empty(t, ops.calls)
	assert.Equal(t, 2, strings.Count(out, "請選擇操作: "))
}

func TestMenu_EOFExits(t *testing.T) {
	ops := &fakeOps{}

	out := runMenu(t, ops, "5\n")

	assert.Equal(t, []string{"stats"}, ops.calls)
	assert.NotContains(t, out, "再見！")
}

func TestMenu_FailureKeepsRunning(t *testing.T) {
	ops := &fakeOps{err: errors.New("db down")}

	out := runMenu(t, ops, "1\n0\n")

	assert.Contains(t, out, "操作失敗: db down")
	assert.Contains(t, out, "再見！")
}
