package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/search-term-analyzer/internal/backend"
	"github.com/Veraticus/search-term-analyzer/internal/config"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
	"github.com/Veraticus/search-term-analyzer/internal/session"
)

// loadSettings resolves the configuration held by the global viper.
func loadSettings() (config.Settings, error) {
	return config.Load(viper.GetViper())
}

// newClient builds the classification service client.
func newClient(settings config.Settings) (*backend.Client, error) {
	client, err := backend.New(settings.Server.BackendConfig(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// parseProductTypes reads a comma separated --type value.
func parseProductTypes(list string, all bool) ([]model.ProductType, error) {
	if all {
		return model.ProductTypes, nil
	}

	var types []model.ProductType
	seen := make(map[model.ProductType]bool)
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pt, err := model.ParseProductType(part)
		if err != nil {
			return nil, err
		}
		if !seen[pt] {
			seen[pt] = true
			types = append(types, pt)
		}
	}

	if len(types) == 0 {
		return nil, fmt.Errorf("at least one product type is required")
	}
	return types, nil
}

// Short field names accepted by --sort.
var fieldAliases = map[string]func(model.ProductType) string{
	"term":        model.ProductType.TermField,
	"campaign":    func(model.ProductType) string { return model.FieldCampaign },
	"ad-group":    func(model.ProductType) string { return model.FieldAdGroup },
	"match-type":  func(model.ProductType) string { return model.FieldMatchType },
	"orders":      func(model.ProductType) string { return model.FieldOrders },
	"sales":       func(model.ProductType) string { return model.FieldSales },
	"spend":       model.ProductType.SpendField,
	"acos":        func(model.ProductType) string { return model.FieldACOS },
	"impressions": func(model.ProductType) string { return model.FieldImpressions },
	"clicks":      func(model.ProductType) string { return model.FieldClicks },
}

// resolveField maps a --sort value to a row field of the product type.
func resolveField(pt model.ProductType, name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if field, ok := fieldAliases[name]; ok {
		return field(pt), nil
	}
	for _, col := range pt.Columns() {
		if col.Field == name {
			return col.Field, nil
		}
	}

	names := make([]string, 0, len(fieldAliases))
	for alias := range fieldAliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return "", fmt.Errorf("unknown sort field %q (want one of %s)", name, strings.Join(names, ", "))
}

// addRequestFlags registers the inputs of an analysis request.
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "search term report (matched target report for display)")
	cmd.Flags().String("targeting", "", "targeting or keyword report")
	cmd.Flags().String("threshold", "1", "positive order threshold (display always uses 1)")
}

// sessionOptions turns the request flags into session options.
func sessionOptions(cmd *cobra.Command) []session.Option {
	search, _ := cmd.Flags().GetString("search")
	targeting, _ := cmd.Flags().GetString("targeting")
	threshold, _ := cmd.Flags().GetString("threshold")

	return []session.Option{
		session.WithFiles(config.ExpandPath(search), config.ExpandPath(targeting)),
		session.WithThreshold(session.ParseThreshold(threshold)),
		session.WithLogger(slog.Default()),
	}
}

// viewOptions are the presentation flags shared by analyze and sheets push.
type viewOptions struct {
	sort        string
	direction   string
	category    string
	filter      string
	filterValue string
	limit       int
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().String("sort", "", "sort column (term, campaign, ad-group, match-type, orders, sales, spend, acos, impressions, clicks)")
	cmd.Flags().String("direction", "desc", "sort direction (asc, desc)")
	cmd.Flags().String("category", string(model.CategoryPositiveNoB0), "table the sort applies to (pos-non-b0, pos-b0, neg-non-b0, neg-b0)")
	cmd.Flags().String("filter", "none", "ACOS filter on positive tables (none, greater, less, equal)")
	cmd.Flags().String("filter-value", "", "ACOS filter threshold")
	cmd.Flags().Int("limit", results.DefaultLimit, "rows shown per table")
}

func readViewFlags(cmd *cobra.Command) viewOptions {
	var opts viewOptions
	opts.sort, _ = cmd.Flags().GetString("sort")
	opts.direction, _ = cmd.Flags().GetString("direction")
	opts.category, _ = cmd.Flags().GetString("category")
	opts.filter, _ = cmd.Flags().GetString("filter")
	opts.filterValue, _ = cmd.Flags().GetString("filter-value")
	opts.limit, _ = cmd.Flags().GetInt("limit")
	return opts
}

// validate reports flag errors before any request is sent.
func (o viewOptions) validate(types []model.ProductType) error {
	if _, err := model.ParseCategory(o.category); err != nil {
		return err
	}
	if o.sort != "" {
		for _, pt := range types {
			if _, err := resolveField(pt, o.sort); err != nil {
				return err
			}
		}
	}
	if o.limit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}
	return nil
}

// apply configures the views of an analyzed session. Limits are reset by
// every new result, so this runs after Submit. The first sort activation
// is descending and a second one flips it.
func (o viewOptions) apply(s *session.Session) error {
	category, err := model.ParseCategory(o.category)
	if err != nil {
		return err
	}

	if o.sort != "" {
		field, err := resolveField(s.ProductType(), o.sort)
		if err != nil {
			return err
		}
		spec := s.SetSort(field, category)
		if spec.Direction != results.ParseDirection(o.direction) {
			s.SetSort(field, category)
		}
	}

	s.SetFilter(results.FilterSpec{
		Type:  results.ParseFilterType(o.filter),
		Value: o.filterValue,
	})

	for _, c := range model.Categories {
		s.SetLimit(c, o.limit)
	}
	return nil
}
