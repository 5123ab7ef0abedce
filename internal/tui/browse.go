package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/darcons/kcal/internal/details"
	"github.com/darcons/kcal/internal/off"
	"github.com/darcons/kcal/internal/pkg/prodview"
	"github.com/darcons/kcal/internal/pkg/progress"
)

type ProductService interface {
	GetProduct(ctx context.Context, req off.GetProductRequest) (off.Product, error)
	SearchProducts(ctx context.Context, req off.SearchRequest) (*off.SearchResult, error)
}

type BrowseOptions struct {
	Lang     string
	Country  string
	PageSize int
}

type searchMode int

const (
	modeBarcode searchMode = iota
	modeName
)

type focusArea int

const (
	focusInput focusArea = iota
	focusResults
)

const (
	barcodePlaceholder = "barcode, e.g. 5449000000996"
	namePlaceholder    = "product name, e.g. yogurt"
	resultsHeight      = 8
)

type lookupDoneMsg struct {
	product off.Product
	err     error
}

type searchDoneMsg struct {
	result *off.SearchResult
	err    error
}

type browseModel struct {
	svc  ProductService
	opts BrowseOptions

	mode    searchMode
	focus   focusArea
	input   textinput.Model
	spin    spinner.Model
	results table.Model

	// last search results, kept so selecting a row re-renders details
	// without another network call
	products []off.Product

	detail  string
	status  string
	loading bool
	width   int
}

func RunBrowse(svc ProductService, opts BrowseOptions) error {
	_, err := tea.NewProgram(newBrowseModel(svc, opts)).Run()
	return err
}

func newBrowseModel(svc ProductService, opts BrowseOptions) browseModel {
	input := textinput.New()
	input.Placeholder = barcodePlaceholder
	input.CharLimit = 120
	input.Width = 48
	input.Focus()

	spin := spinner.New(spinner.WithSpinner(progress.DotSpinner()))
	spin.Style = subtleStyle

	results := table.New(
		table.WithColumns([]table.Column{
			{Title: "CODE", Width: 16},
			{Title: "NAME", Width: 34},
			{Title: "BRAND", Width: 20},
			{Title: "KCAL/100G", Width: 10},
		}),
		table.WithHeight(resultsHeight),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = selectedStyle
	results.SetStyles(styles)

	return browseModel{
		svc:     svc,
		opts:    opts,
		input:   input,
		spin:    spin,
		results: results,
		status:  "enter a barcode and press enter",
		width:   120,
	}
}

func (m browseModel) Init() tea.Cmd { return textinput.Blink }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case lookupDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		if msg.product == nil {
			m.status = "product not found."
			return m, nil
		}

		m.detail = details.Format(msg.product)
		m.status = ""
		return m, nil

	case searchDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}

		m.products = msg.result.Products
		m.results.SetRows(tableRows(m.products))
		if len(m.products) == 0 {
			m.status = "no products found."
			return m, nil
		}

		m.status = fmt.Sprintf("%d product(s), enter shows details", len(m.products))
		m.focus = focusResults
		m.input.Blur()
		m.results.Focus()
		m.results.SetCursor(0)
		return m, nil
	}

	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.focus == focusResults {
			m.focus = focusInput
			m.results.Blur()
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, tea.Quit
	case "tab":
		return m.toggleMode(), nil
	case "enter":
		return m.handleEnter()
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusInput:
		m.input, cmd = m.input.Update(msg)
	case focusResults:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m browseModel) toggleMode() browseModel {
	if m.loading {
		return m
	}

	if m.mode == modeBarcode {
		m.mode = modeName
		m.input.Placeholder = namePlaceholder
	} else {
		m.mode = modeBarcode
		m.input.Placeholder = barcodePlaceholder
	}

	m.products = nil
	m.results.SetRows(nil)
	m.detail = ""
	m.status = ""
	m.focus = focusInput
	m.results.Blur()
	m.input.Focus()
	return m
}

func (m browseModel) handleEnter() (tea.Model, tea.Cmd) {
	// one request at a time: submits are ignored while a call is in flight
	if m.loading {
		return m, nil
	}

	if m.focus == focusResults {
		if i := m.results.Cursor(); i >= 0 && i < len(m.products) {
			m.detail = details.Format(m.products[i])
			m.status = ""
		}
		return m, nil
	}

	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.status = "enter a query first"
		return m, nil
	}

	m.loading = true
	m.detail = ""
	m.status = ""
	m.products = nil
	m.results.SetRows(nil)

	if m.mode == modeBarcode {
		return m, tea.Batch(m.runLookup(query), m.spin.Tick)
	}
	return m, tea.Batch(m.runSearch(query), m.spin.Tick)
}

func (m browseModel) runLookup(code string) tea.Cmd {
	return func() tea.Msg {
		product, err := m.svc.GetProduct(context.Background(), off.GetProductRequest{
			Code:    code,
			Lang:    m.opts.Lang,
			Country: m.opts.Country,
		})
		return lookupDoneMsg{product: product, err: err}
	}
}

func (m browseModel) runSearch(query string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.svc.SearchProducts(context.Background(), off.SearchRequest{
			Query:    query,
			PageSize: m.opts.PageSize,
			Lang:     m.opts.Lang,
			Country:  m.opts.Country,
		})
		return searchDoneMsg{result: result, err: err}
	}
}

func (m browseModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("kcal"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render("Open Food Facts product browser"))
	b.WriteString("\n\n")

	b.WriteString(chipStyle.Render("mode: " + m.modeLabel()))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.loading {
		b.WriteString(chipStyle.Render(fmt.Sprintf("%s fetching", m.spin.View())))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(subtleStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.mode == modeName && len(m.products) > 0 {
		b.WriteString("\n")
		b.WriteString(m.results.View())
		b.WriteString("\n")
	}

	if m.detail != "" {
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(m.detail))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Keys: enter search/select  tab switch mode  ↑/↓ move  esc back  ctrl+c quit"))
	b.WriteString("\n")

	return b.String()
}

func (m browseModel) modeLabel() string {
	if m.mode == modeBarcode {
		return "barcode"
	}
	return "name"
}

func tableRows(products []off.Product) []table.Row {
	rows := make([]table.Row, 0, len(products))
	for _, row := range prodview.RowsFromProducts(products) {
		rows = append(rows, table.Row{row.Code, row.Name, row.Brand, row.Kcal})
	}
	return rows
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	chipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
