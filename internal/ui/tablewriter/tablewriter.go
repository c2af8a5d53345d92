package tablewriter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/acarl005/stripansi"
)

// Column 表格列定义
type Column struct {
	Name         string // 列名
	SeparateLine bool   // 是否单独一行显示
	RightAlign   bool   // 是否右对齐
	Lines        int    // 有数据的行数，无数据的列不输出
}

type columnCfg struct {
	rightAlign bool
}

// ColumnOption 列选项
type ColumnOption func(*columnCfg)

// RightAlign 列内容右对齐，用于金额
func RightAlign() ColumnOption {
	return func(c *columnCfg) {
		c.rightAlign = true
	}
}

// TableWriter 表格写入器，宽度按去除 ANSI 颜色后的可见字符计算
type TableWriter struct {
	cols []Column
	rows []map[int]string
}

// Col 创建普通列
func Col(name string, opts ...ColumnOption) Column {
	cfg := &columnCfg{}
	for _, o := range opts {
		o(cfg)
	}
	return Column{Name: name, RightAlign: cfg.rightAlign}
}

// NewLineCol 创建单独行列
func NewLineCol(name string) Column {
	return Column{Name: name, SeparateLine: true}
}

// New 创建新的表格写入器
func New(cols ...Column) *TableWriter {
	return &TableWriter{cols: cols}
}

// Write 写入一行数据，未声明的键会追加为新列
func (w *TableWriter) Write(r map[string]interface{}) {
	byColID := map[int]string{}

cloop:
	for col, val := range r {
		for i, column := range w.cols {
			if column.Name == col {
				byColID[i] = fmt.Sprint(val)
				w.cols[i].Lines++
				continue cloop
			}
		}

		byColID[len(w.cols)] = fmt.Sprint(val)
		w.cols = append(w.cols, Column{Name: col, Lines: 1})
	}

	w.rows = append(w.rows, byColID)
}

// Flush 输出表格
func (w *TableWriter) Flush(out io.Writer) error {
	colLengths := make([]int, len(w.cols))

	header := map[int]string{}
	for i, col := range w.cols {
		if col.SeparateLine {
			continue
		}
		header[i] = col.Name
	}
	rows := append([]map[int]string{header}, w.rows...)

	for col, c := range w.cols {
		if c.Lines == 0 {
			continue
		}
		for _, row := range rows {
			val, found := row[col]
			if !found {
				continue
			}
			if l := cliStringLength(val); l > colLengths[col] {
				colLengths[col] = l
			}
		}
	}

	for _, row := range rows {
		cols := make([]string, 0, len(w.cols))

		for ci, col := range w.cols {
			if col.Lines == 0 || col.SeparateLine {
				continue
			}
			e := row[ci]
			pad := strings.Repeat(" ", colLengths[ci]-cliStringLength(e))
			if col.RightAlign {
				cols = append(cols, pad+e)
			} else {
				cols = append(cols, e+pad)
			}
		}

		if _, err := fmt.Fprintln(out, strings.TrimRight(strings.Join(cols, "  "), " ")); err != nil {
			return err
		}

		for ci, col := range w.cols {
			if !col.SeparateLine || col.Lines == 0 {
				continue
			}
			if e := row[ci]; e != "" {
				if _, err := fmt.Fprintf(out, "  %s: %s\n", col.Name, e); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func cliStringLength(s string) int {
	return utf8.RuneCountInString(stripansi.Strip(s))
}
