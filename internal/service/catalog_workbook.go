package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ── 课程表文件读取 ──
//
// 下载接口返回旧版 BIFF8（.xls，OLE2 容器），另外兼容 xlsx。
// 两种格式都只读取第一个 Sheet，输出按行的字符串矩阵，缺失的行为 nil。

// ole2Signature OLE2 复合文档文件头
var ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

var errNoSheet = errors.New("课程表中没有 Sheet")

// isLegacyWorkbook 是否为 OLE2 容器（.xls）
func isLegacyWorkbook(data []byte) bool {
	return bytes.HasPrefix(data, ole2Signature)
}

// readWorkbookRows 按文件头选择读取方式
func readWorkbookRows(data []byte) ([][]string, error) {
	if isLegacyWorkbook(data) {
		return readXLSRows(data)
	}
	return readXLSXRows(data)
}

func readXLSXRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("打开课程表失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取 Sheet 失败: %w", err)
	}
	return rows, nil
}

func readXLSRows(data []byte) (rows [][]string, err error) {
	// xls 库遇到损坏的记录会 panic
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("打开课程表失败: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("打开课程表失败: %w", err)
	}
	if wb == nil {
		return nil, fmt.Errorf("打开课程表失败: 缺少 Workbook 流")
	}
	if wb.NumSheets() == 0 {
		return nil, errNoSheet
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errNoSheet
	}
	if sheet.MaxRow == 0 {
		// 只有一行或空 Sheet，不可能包含第 3 行表头
		return nil, nil
	}
	// ReadAllCells 按行数上限截断，上限取第一个 Sheet 的行数即只读第一个 Sheet
	return wb.ReadAllCells(int(sheet.MaxRow) + 1), nil
}
