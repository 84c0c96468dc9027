package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/applicant-intake/internal/types"
)

func sampleRecord() types.ApplicationRecord {
	return types.ApplicationRecord{
		PersonalInfo: types.PersonalInfo{
			Name:  "Jane Doe",
			Email: "jane.doe@example.com",
			Phone: "+1 415 555 0101",
		},
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "BSc Computer Science", Year: "2019"},
		},
		Qualifications: []types.QualificationEntry{
			{Name: "AWS Certified", Details: "Solutions Architect Associate"},
		},
		Projects: []types.ProjectEntry{
			{Name: "Intake Service", Description: "CV processing pipeline", Technologies: "Go"},
		},
		CVPublicLink: "http://localhost:3000/files/abc.pdf",
		Status:       types.StatusSubmitted,
		CreatedAt:    "2025-03-14T09:26:53Z",
		ProcessedAt:  "2025-03-14T09:26:53Z",
	}
}

func TestInitCreatesHeaderRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.xlsx")
	l := New(path)

	require.NoError(t, l.Init())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"Name", "Email", "Phone",
		"Education", "Qualifications", "Projects",
		"CV Link", "Submission Time",
	}, rows[0])
}

func TestInitLeavesExistingWorkbookAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.xlsx")
	l := New(path)

	require.NoError(t, l.Init())
	require.NoError(t, l.Append(sampleRecord()))

	// A second Init must not reset the workbook.
	require.NoError(t, l.Init())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestAppendFlattensRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.xlsx")
	l := New(path)

	require.NoError(t, l.Append(sampleRecord()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	require.Len(t, row, 8)
	assert.Equal(t, "Jane Doe", row[0])
	assert.Equal(t, "jane.doe@example.com", row[1])
	assert.Equal(t, "+1 415 555 0101", row[2])
	assert.JSONEq(t, `[{"institution":"State University","degree":"BSc Computer Science","year":"2019"}]`, row[3])
	assert.JSONEq(t, `[{"name":"AWS Certified","details":"Solutions Architect Associate"}]`, row[4])
	assert.JSONEq(t, `[{"name":"Intake Service","description":"CV processing pipeline","technologies":"Go"}]`, row[5])
	assert.Equal(t, "http://localhost:3000/files/abc.pdf", row[6])
	assert.Equal(t, "2025-03-14T09:26:53Z", row[7])
}

func TestAppendCreatesWorkbookOnDemand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.xlsx")

	require.NoError(t, New(path).Append(sampleRecord()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestAppendAccumulatesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.xlsx")
	l := New(path)

	require.NoError(t, l.Append(sampleRecord()))
	second := sampleRecord()
	second.PersonalInfo.Name = "John Roe"
	require.NoError(t, l.Append(second))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Jane Doe", rows[1][0])
	assert.Equal(t, "John Roe", rows[2][0])
}
