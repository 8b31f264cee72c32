package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/docqa/internal/present/format"
	"github.com/mithrel/docqa/internal/util"
	"github.com/mithrel/docqa/pkg/api"
)

const (
	idW       = 6
	pagesW    = 6
	sizeW     = 10
	uploadedW = 16
	statusW   = 10
)

func (m *model) initTable() {
	m.table = table.New(table.WithColumns(m.columnsFor(40)), table.WithFocused(true))
	m.updateRows()
	m.applyStyles()
}

func (m *model) updateRows() {
	rows := make([]table.Row, 0, len(m.docs))
	for _, d := range m.docs {
		rows = append(rows, table.Row{
			strconv.FormatInt(d.ID, 10),
			d.DisplayName(),
			format.Pages(d),
			format.Size(d),
			format.Uploaded(d),
			format.DocumentStatus(d),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// applyFilter narrows the visible documents to fuzzy matches of the filter,
// best match first.
func (m *model) applyFilter() {
	if m.filter == "" {
		m.docs = m.all
	} else {
		names := make([]string, len(m.all))
		for i, d := range m.all {
			names[i] = d.DisplayName()
		}
		idx := util.FuzzyIndexes(m.filter, names)
		m.docs = make([]api.Document, len(idx))
		for i, j := range idx {
			m.docs[i] = m.all[j]
		}
	}
	m.updateRows()
}

func (m *model) removeDocument(id int64) {
	kept := make([]api.Document, 0, len(m.all))
	for _, d := range m.all {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	m.all = kept
	m.applyFilter()
}

func (m model) selected() (api.Document, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.docs) {
		return api.Document{}, false
	}
	return m.docs[idx], true
}

func (m model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+q":
		return m, tea.Quit
	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.applyFilter()
			return m, nil
		}
		return m, tea.Quit
	case "/":
		m.filterUI = newFilterModal(m.filter, m.width, m.height)
		return m, m.filterUI.input.Focus()
	case "r":
		m.loading = true
		m.status = "Reloading…"
		return m, loadDocsCmd(m.ctx, m.opts.Docs)
	case "enter":
		if d, ok := m.selected(); ok {
			m.openChat(d)
			return m, tea.Batch(historyCmd(m.ctx, m.opts.Chat, d.ID, m.opts.HistoryLimit), textinput.Blink)
		}
		return m, nil
	case "d":
		if d, ok := m.selected(); ok {
			m.confirm = newConfirmModal(d, m.width, m.height)
		}
		return m, nil
	case "i":
		if d, ok := m.selected(); ok {
			m.info = newInfoModal(d, m.width, m.height)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) renderFooter() string {
	left := "↑/↓ navigate • enter=chat • /=filter • i=info • d=delete • r=reload • q=exit"

	var right string
	if m.status != "" {
		if m.lastDuration > 0 {
			right = fmt.Sprintf("%s (%s) • ", m.status, m.lastDuration.Round(time.Millisecond))
		} else {
			right = m.status + " • "
		}
	}
	if m.filter != "" {
		right += fmt.Sprintf("%d/%d documents ", len(m.docs), len(m.all))
	} else {
		right += fmt.Sprintf("%d documents ", len(m.all))
	}
	return spread(left, right, m.table.Width())
}

func (m model) tableView() string {
	if m.loading && len(m.all) == 0 {
		return "Loading documents…\n"
	}
	if len(m.all) == 0 {
		return "(no documents) upload one with `docqa doc upload <file.pdf>`; r=reload q=exit\n" + m.status + "\n"
	}
	return m.table.View() + "\n" + m.renderFooter() + "\n"
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(4, m.height-1))
	m.table.SetWidth(m.width)
	fixed := idW + pagesW + sizeW + uploadedW + statusW + 12 // cell padding
	m.table.SetColumns(m.columnsFor(max(12, m.width-fixed)))
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.opts.Headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns columns with or without titles based on the headers option.
func (m *model) columnsFor(nameW int) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: idW},
		{Title: "Name", Width: nameW},
		{Title: "Pages", Width: pagesW},
		{Title: "Size", Width: sizeW},
		{Title: "Uploaded", Width: uploadedW},
		{Title: "Status", Width: statusW},
	}
	if !m.opts.Headers {
		for i := range cols {
			cols[i].Title = ""
		}
	}
	return cols
}
