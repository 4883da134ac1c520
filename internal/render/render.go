package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/dyphira-git/dyfusion-explorer/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page is the composed view of a dashboard snapshot.
type Page struct {
	Stats        []StatCard `json:"stats"`
	Blocks       []BlockRow `json:"blocks"`
	Transactions []TxRow    `json:"transactions"`
	LoadedAt     time.Time  `json:"loadedAt"`
	Year         int        `json:"-"`
}

// Renderer writes dashboard snapshots as HTML or JSON.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, now: time.Now}, nil
}

// Compose runs the three presenters over d. They share no state.
func (r *Renderer) Compose(d *models.Dashboard) Page {
	return Page{
		Stats:        PresentStats(d.Stats),
		Blocks:       PresentBlocks(d.Blocks),
		Transactions: PresentTransactions(d.Transactions),
		LoadedAt:     d.LoadedAt,
		Year:         r.now().Year(),
	}
}

func (r *Renderer) RenderDashboard(w io.Writer, d *models.Dashboard) error {
	if err := r.tmpl.ExecuteTemplate(w, "dashboard", r.Compose(d)); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

func (r *Renderer) RenderJSON(w io.Writer, d *models.Dashboard) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Compose(d)); err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}
	return nil
}

func (r *Renderer) RenderStats(w io.Writer, s models.StatsSummary) error {
	return r.tmpl.ExecuteTemplate(w, "stats", PresentStats(s))
}

func (r *Renderer) RenderBlocks(w io.Writer, blocks []models.BlockSummary) error {
	return r.tmpl.ExecuteTemplate(w, "blocks", PresentBlocks(blocks))
}

func (r *Renderer) RenderTransactions(w io.Writer, txs []models.TransactionSummary) error {
	return r.tmpl.ExecuteTemplate(w, "transactions", PresentTransactions(txs))
}
