package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simglobe/simglobe/internal/domain/market"
	"github.com/simglobe/simglobe/internal/domain/match"
	"github.com/simglobe/simglobe/internal/domain/product"
	"github.com/simglobe/simglobe/internal/domain/risk"
	"github.com/simglobe/simglobe/internal/transport/polymarket"
	"github.com/simglobe/simglobe/internal/usecase/relevance"
)

type catalogProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       any    `json:"price"`
	Inventory   any    `json:"inventory"`
}

type catalogRisk struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Probability float64 `json:"probability"`
	Volume      float64 `json:"volume"`
}

type matchEntry struct {
	RiskID      string   `json:"riskId"`
	RiskTitle   string   `json:"riskTitle"`
	Probability float64  `json:"probability"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
	Impact      string   `json:"impact"`
}

type hedgeEntry struct {
	ExposedValue       float64 `json:"exposedValue"`
	AverageProbability float64 `json:"averageProbability"`
	Fraction           float64 `json:"fraction"`
	Suggested          int64   `json:"suggestedHedge"`
}

type productReport struct {
	ProductID   string       `json:"productId"`
	ProductName string       `json:"productName"`
	Matches     []matchEntry `json:"matches"`
	Hedge       hedgeEntry   `json:"hedge"`
}

type matchReport struct {
	RiskSource string          `json:"riskSource"`
	Products   []productReport `json:"products"`
}

func newMatchCmd() *cobra.Command {
	var (
		productsPath string
		risksPath    string
		top          int
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score a product catalog against risk events and suggest hedges",
		Long: `Score every product in a JSON catalog against a list of risk events and
print the ranked matches with a suggested hedge per product.

The catalog is a JSON array of {id, name, category, description, price, inventory};
price and inventory may be numbers or numeric strings such as "19.99". Risks are a JSON
array of {id, title, description, category, probability, volume}. Without --risks
the built-in demo markets are used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := readCatalog(productsPath)
			if err != nil {
				return err
			}

			source := "file"
			var events []risk.Event
			if risksPath != "" {
				events, err = readRisks(risksPath)
			} else {
				source = "demo"
				var markets []market.Market
				markets, err = polymarket.NewFake().Markets(cmd.Context(), -1)
				events = market.Events(markets)
			}
			if err != nil {
				return err
			}

			report := buildReport(relevance.New(relevance.DefaultConfig()), products, events, top)
			report.RiskSource = source

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&productsPath, "products", "", "path to the product catalog JSON")
	cmd.Flags().StringVar(&risksPath, "risks", "", "path to the risk events JSON (default: demo markets)")
	cmd.Flags().IntVar(&top, "top", 0, "keep at most this many matches per product (0 keeps all)")
	_ = cmd.MarkFlagRequired("products")
	return cmd
}

func buildReport(engine *relevance.Engine, products []product.Product, events []risk.Event, top int) matchReport {
	report := matchReport{Products: make([]productReport, 0, len(products))}
	for _, p := range products {
		matches := engine.ForProduct(p, events)
		hedge := engine.SuggestHedge(p, matches)

		shown := matches
		if top > 0 && len(shown) > top {
			shown = shown[:top]
		}
		report.Products = append(report.Products, productReport{
			ProductID:   p.ID(),
			ProductName: p.Name(),
			Matches:     toEntries(shown),
			Hedge: hedgeEntry{
				ExposedValue:       hedge.ExposedValue,
				AverageProbability: hedge.AverageProbability,
				Fraction:           hedge.Fraction,
				Suggested:          hedge.Suggested,
			},
		})
	}
	return report
}

func toEntries(matches []match.Match) []matchEntry {
	out := make([]matchEntry, len(matches))
	for i, m := range matches {
		reasons := m.Reasons()
		if reasons == nil {
			reasons = []string{}
		}
		out[i] = matchEntry{
			RiskID:      m.Risk().ID(),
			RiskTitle:   m.Risk().Title(),
			Probability: m.Risk().Probability(),
			Score:       m.Score(),
			Reasons:     reasons,
			Impact:      relevance.DescribeMatch(m),
		}
	}
	return out
}

func readCatalog(path string) ([]product.Product, error) {
	var raw []catalogProduct
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}

	out := make([]product.Product, 0, len(raw))
	for i, r := range raw {
		p, err := product.FromRaw(r.ID, r.Name, r.Category, r.Description, r.Price, r.Inventory)
		if err != nil {
			return nil, fmt.Errorf("product %d (%s): %w", i, r.Name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// readRisks loads risk events; a missing category is inferred from the wording.
func readRisks(path string) ([]risk.Event, error) {
	var raw []catalogRisk
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}

	out := make([]risk.Event, len(raw))
	for i, r := range raw {
		category := r.Category
		if category == "" {
			category = market.Classify(r.Title + " " + r.Description)
		}
		out[i] = risk.New(r.ID, r.Title, r.Description, category, r.Probability, r.Volume)
	}
	return out, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
