// Package ledger maintains the append-only applications workbook. It is
// the spreadsheet collaborator of the intake pipeline: every processed
// submission is flattened into one row.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/applicant-intake/internal/types"
)

const sheetName = "Sheet1"

var headerRow = []string{
	"Name", "Email", "Phone",
	"Education", "Qualifications", "Projects",
	"CV Link", "Submission Time",
}

// Ledger appends application records to an xlsx workbook on disk.
type Ledger struct {
	path string
}

// New returns a Ledger writing to the workbook at path. The workbook is
// created on first use if it does not exist.
func New(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the workbook location.
func (l *Ledger) Path() string {
	return l.path
}

// Init creates the workbook with its header row. Existing workbooks are
// left untouched.
func (l *Ledger) Init() error {
	if _, err := os.Stat(l.path); err == nil {
		return nil
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, title := range headerRow {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headerRow), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	if err := f.SaveAs(l.path); err != nil {
		return fmt.Errorf("failed to create ledger workbook: %w", err)
	}
	return nil
}

// Append flattens a record into one row and appends it to the workbook.
// The array fields are stringified as JSON, matching what the downstream
// consumers of the sheet expect.
func (l *Ledger) Append(record types.ApplicationRecord) error {
	if err := l.Init(); err != nil {
		return err
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return fmt.Errorf("failed to open ledger workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("failed to read ledger rows: %w", err)
	}

	row, err := flattenRecord(record)
	if err != nil {
		return err
	}

	start, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, start, &row); err != nil {
		return fmt.Errorf("failed to append ledger row: %w", err)
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save ledger workbook: %w", err)
	}
	return nil
}

func flattenRecord(record types.ApplicationRecord) ([]interface{}, error) {
	education, err := json.Marshal(record.Education)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten education: %w", err)
	}
	qualifications, err := json.Marshal(record.Qualifications)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten qualifications: %w", err)
	}
	projects, err := json.Marshal(record.Projects)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten projects: %w", err)
	}

	return []interface{}{
		record.PersonalInfo.Name,
		record.PersonalInfo.Email,
		record.PersonalInfo.Phone,
		string(education),
		string(qualifications),
		string(projects),
		record.CVPublicLink,
		record.CreatedAt,
	}, nil
}
