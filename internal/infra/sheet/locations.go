// Package sheet reads the store location directory from an .xlsx export.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"pizzeria/internal/domain/model"

	"github.com/xuri/excelize/v2"
)

var ErrNoStoreNameColumn = errors.New("sheet has no store_name column")

// ReadLocations parses rows of the named sheet. The first row is the header;
// columns are matched by name in any order and unknown columns are ignored.
func ReadLocations(r io.Reader, sheetName string) ([]model.Location, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer xl.Close()

	if sheetName == "" {
		sheetName = xl.GetSheetName(0)
	}
	rows, err := xl.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["store_name"]; !ok {
		return nil, ErrNoStoreNameColumn
	}

	out := make([]model.Location, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(name string) *string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return nil
			}
			v := strings.TrimSpace(row[i])
			if v == "" {
				return nil
			}
			return &v
		}

		name := cell("store_name")
		if name == nil {
			continue
		}
		out = append(out, model.Location{
			StoreName:   *name,
			Address:     cell("address"),
			Area:        cell("area"),
			City:        cell("city"),
			State:       cell("state"),
			Pincode:     cell("pincode"),
			Phone:       cell("phone"),
			OpeningTime: cell("opening_time"),
			ClosingTime: cell("closing_time"),
		})
	}
	return out, nil
}
