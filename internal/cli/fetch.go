package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/revlens/revlens/internal/control"
	"github.com/revlens/revlens/internal/coordinator"
	"github.com/revlens/revlens/internal/core/domain"
	"github.com/revlens/revlens/internal/transform"
	"github.com/spf13/cobra"
)

var (
	fetchPage      int
	fetchPageSize  int
	fetchSortField string
	fetchSortDesc  bool
	fetchChunked   bool
	fetchChart     string
	fetchStart     string
	fetchEnd       string
	fetchCompanies []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch revenue records once and print them as JSON",
	Run:   runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchPage, "page", 1, "page number")
	fetchCmd.Flags().IntVar(&fetchPageSize, "page-size", 50, "rows per page")
	fetchCmd.Flags().StringVar(&fetchSortField, "sort", "", "sort field")
	fetchCmd.Flags().BoolVar(&fetchSortDesc, "desc", true, "sort descending")
	fetchCmd.Flags().BoolVar(&fetchChunked, "chunked", false, "fetch all pages")
	fetchCmd.Flags().StringVar(&fetchChart, "chart", "", "transform for a chart kind (pie, bar, line, waterfall, table)")
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "start date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "end date (YYYY-MM-DD)")
	fetchCmd.Flags().StringSliceVar(&fetchCompanies, "company", nil, "filter by company (repeatable)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	svc := control.NewService(cfg)

	order := domain.SortDesc
	if !fetchSortDesc {
		order = domain.SortAsc
	}

	req := domain.FetchRequest{
		Filters: domain.FilterSet{
			DateRange: domain.DateRange{StartDate: fetchStart, EndDate: fetchEnd},
			Companies: domain.CompanyFilter{SelectedCompanies: fetchCompanies},
		},
		Page:      fetchPage,
		PageSize:  fetchPageSize,
		SortField: fetchSortField,
		SortOrder: order,
		Chunked:   fetchChunked,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	coord := svc.Coordinator()
	if fetchChart != "" {
		result, err := coord.FetchChartData(ctx, "cli", transform.Kind(fetchChart), req, coordinator.DefaultFetchOptions)
		if err != nil {
			slog.Error("Fetch failed", "error", err)
			os.Exit(1)
		}
		if result.Err != "" {
			slog.Error("Fetch failed", "error", result.Err)
			os.Exit(1)
		}
		_ = enc.Encode(result.Series)
		return
	}

	result, err := coord.FetchData(ctx, "cli", req, coordinator.DefaultFetchOptions)
	if err != nil {
		slog.Error("Fetch failed", "error", err)
		os.Exit(1)
	}
	if result.Err != "" {
		slog.Error("Fetch failed", "error", result.Err)
		os.Exit(1)
	}
	_ = enc.Encode(result)
}
