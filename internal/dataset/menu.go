package dataset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Operations is what the console drives; *Manager implements it.
type Operations interface {
	Clean(ctx context.Context) error
	Generate(ctx context.Context) (*GenerateReport, error)
	ExportJSON(ctx context.Context, path string) (*Document, error)
	ImportJSON(ctx context.Context, path string) (*SnapshotReport, error)
	Statistics(ctx context.Context) (*Statistics, error)
	FullPipeline(ctx context.Context, path string) (*Statistics, error)
}

// Menu is the numbered interactive console over Operations.
type Menu struct {
	ops         Operations
	in          *bufio.Scanner
	out         io.Writer
	defaultFile string
}

func NewMenu(ops Operations, in io.Reader, out io.Writer, defaultFile string) *Menu {
	if defaultFile == "" {
		defaultFile = DefaultSnapshotFile
	}
	return &Menu{ops: ops, in: bufio.NewScanner(in), out: out, defaultFile: defaultFile}
}

// Run prompts until the user picks 0, input ends or ctx is cancelled.
// Operation failures are printed and the menu keeps going.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printOptions()
		choice, ok := m.prompt("請選擇操作: ")
		if !ok {
			fmt.Fprintln(m.out)
			return m.in.Err()
		}

		switch choice {
		case "1":
			m.report(m.ops.Clean(ctx), "數據清理完成")
		case "2":
			report, err := m.ops.Generate(ctx)
			if m.report(err, "樣本數據生成完成") {
				fmt.Fprintf(m.out, "- 科目: %d 個\n- 醫生: %d 位\n- 診所列表: %d 個\n",
					report.Subjects, report.Doctors, report.Listings)
			}
		case "3":
			_, err := m.ops.ExportJSON(ctx, m.defaultFile)
			m.report(err, "數據已導出到: "+m.defaultFile)
		case "4":
			file, _ := m.prompt("輸入JSON文件名 (回車使用默認): ")
			if file == "" {
				file = m.defaultFile
			}
			report, err := m.ops.ImportJSON(ctx, file)
			if m.report(err, "數據導入完成") {
				fmt.Fprintf(m.out, "- 科目: %d 個\n- 醫生: %d 位\n- 診所列表: %d 個\n- 跳過: %d\n",
					report.Subjects, report.Doctors, report.Listings, report.Skipped)
			}
		case "5":
			stats, err := m.ops.Statistics(ctx)
			if m.report(err, "") {
				stats.Render(m.out)
			}
		case "6":
			fmt.Fprintln(m.out, "執行完整流程...")
			stats, err := m.ops.FullPipeline(ctx, m.defaultFile)
			if m.report(err, "完整流程完成！") {
				stats.Render(m.out)
			}
		case "0":
			fmt.Fprintln(m.out, "再見！")
			return nil
		default:
			fmt.Fprintln(m.out, "無效選擇，請重新輸入")
		}
	}
}

func (m *Menu) printOptions() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "=== 數據管理系統 ===")
	fmt.Fprintln(m.out, "1. 清理所有數據")
	fmt.Fprintln(m.out, "2. 生成樣本數據")
	fmt.Fprintln(m.out, "3. 導出數據到JSON")
	fmt.Fprintln(m.out, "4. 從JSON導入數據")
	fmt.Fprintln(m.out, "5. 顯示數據統計")
	fmt.Fprintln(m.out, "6. 執行完整流程 (清理→生成→導出→統計)")
	fmt.Fprintln(m.out, "0. 退出")
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// report prints err or the success message and reports whether the operation succeeded.
func (m *Menu) report(err error, success string) bool {
	if err != nil {
		fmt.Fprintf(m.out, "操作失敗: %v\n", err)
		return false
	}
	if success != "" {
		fmt.Fprintln(m.out, success)
	}
	return true
}
