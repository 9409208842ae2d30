package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/jobtrack/internal/models"
)

var _ list.Item = jobItem{}

// jobItem wraps [models.JobRecord] to implement [list.Item].
type jobItem struct {
	record *models.JobRecord
}

func (i jobItem) FilterValue() string { return strings.Join(i.record.SearchFields(), " ") }
func (i jobItem) Title() string {
	return fmt.Sprintf("%s • %s", i.record.CompanyName, i.record.JobTitle)
}

func (i jobItem) Description() string {
	parts := []string{i.record.ApplicationDate, i.record.Status}
	if i.record.CountryName != "" {
		parts = append(parts, i.record.CountryName)
	}
	return strings.Join(parts, " • ")
}

func jobItems(records []*models.JobRecord) []list.Item {
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = jobItem{record: r}
	}
	return items
}
