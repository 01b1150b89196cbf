package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"coursepick/internal/models/response_models"
)

func sampleSemesters() []response_models.Semester {
	total := 5.0
	return []response_models.Semester{
		{
			Label:        "1",
			TotalCredits: &total,
			Courses: []response_models.Course{
				{Name: "会计学", Credits: 3, Time: "周一 1-2节", Teacher: "王老师", SubjectCategory: []string{"财务分析", "组织管理"}},
				{Name: "统计学", Credits: 2, Location: "A101"},
			},
		},
		{
			Label:   "2",
			Courses: []response_models.Course{{Name: "金融学", Credits: 2.5, Note: "双语"}},
		},
	}
}

func TestWriteScheduleCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScheduleCSV(&buf, sampleSemesters()))

	body := buf.String()
	require.True(t, strings.HasPrefix(body, "\ufeff"))

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(body, "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, scheduleHeaders, records[0])
	assert.Equal(t, []string{"1", "会计学", "3", "周一 1-2节", "王老师", "", "", "财务分析、组织管理"}, records[1])
	assert.Equal(t, []string{"2", "金融学", "2.5", "", "", "", "双语", ""}, records[3])
}

func TestWriteScheduleXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScheduleXLSX(&buf, sampleSemesters()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"第1学期", "第2学期"}, f.GetSheetList())

	rows, err := f.GetRows("第1学期")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, scheduleHeaders[1:], rows[0])
	assert.Equal(t, "会计学", rows[1][0])
	assert.Equal(t, "3", rows[1][1])
	assert.Equal(t, "总学分", rows[3][0])
	assert.Equal(t, "5", rows[3][1])

	rows, err = f.GetRows("第2学期")
	require.NoError(t, err)
	assert.Equal(t, "2.5", rows[2][1])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "第3学期", SheetName("3"))
	assert.Equal(t, "大三_上", SheetName("大三/上"))
	assert.Equal(t, "未命名", SheetName("  "))
	assert.Len(t, []rune(SheetName(strings.Repeat("学", 40))), 31)
}

func TestContentType(t *testing.T) {
	ct, ok := ContentType(FormatCSV)
	assert.True(t, ok)
	assert.Contains(t, ct, "text/csv")

	_, ok = ContentType("pdf")
	assert.False(t, ok)
}
