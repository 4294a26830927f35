package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagecms/searchkit/internal/delivery"
	"github.com/pagecms/searchkit/internal/search"
	"github.com/pagecms/searchkit/internal/store"
	"github.com/pagecms/searchkit/internal/ui"
)

type searchOptions struct {
	index    string
	page     int
	pageSize int
	native   bool
	culture  string
	preview  bool
	member   string
	roles    []string
	selector string
	filters  []string
	sorts    []string
	format   string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search an index",
		Long: `Search runs a free-text, native or structured delivery query against a
named index.

Filters use field:operator:value syntax with | separating multiple
values. Operators: is, isNot, contains, doesNotContain, lt, lte, gt,
gte. Sorts use field:asc or field:desc, listed in precedence order.

Examples:
  searchkit search "red shoes"
  searchkit search shoes --filter "price:gte:10" --sort price:asc
  searchkit search --select "contentType:product|article" --culture en-US
  searchkit search --native '+title:shoes +price:>=10'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, term, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.index, "index", "i", "content", "Index to search")
	cmd.Flags().IntVar(&opts.page, "page", 0, "Page index (0-based)")
	cmd.Flags().IntVarP(&opts.pageSize, "page-size", "n", 10, "Results per page")
	cmd.Flags().BoolVar(&opts.native, "native", false, "Treat the term as a native engine query")
	cmd.Flags().StringVar(&opts.culture, "culture", "", "Request culture (falls back to invariant content)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "Include unpublished documents")
	cmd.Flags().StringVar(&opts.member, "member", "", "Member key for protected content")
	cmd.Flags().StringSliceVar(&opts.roles, "role", nil, "Member role for protected content (repeatable)")
	cmd.Flags().StringVar(&opts.selector, "select", "", "Selector as field:value|value")
	cmd.Flags().StringSliceVar(&opts.filters, "filter", nil, "Filter as field:operator:value|value (repeatable)")
	cmd.Flags().StringSliceVar(&opts.sorts, "sort", nil, "Sort as field:asc|desc (repeatable)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, term string, opts searchOptions) error {
	out := ui.New(cmd.OutOrStdout())

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	searcher, ok := a.provider.Searcher(opts.index)
	if !ok {
		return fmt.Errorf("no searcher named %q; available: %v", opts.index, a.provider.SearcherNames())
	}

	if _, err := a.loadContent(""); err != nil {
		// Searching without content loaded is fine for pre-built indexes.
		out.Dimf("content not loaded: %v", err)
	}

	var results search.Results
	switch {
	case opts.native:
		results = searcher.NativeQuery(ctx, term, opts.page, opts.pageSize)
	case structured(opts):
		results, err = runDeliverySearch(ctx, a, searcher, term, opts)
		if err != nil {
			return err
		}
	default:
		results = searcher.Search(ctx, term, opts.page, opts.pageSize)
	}

	return renderResults(cmd, out, results, opts)
}

// structured reports whether any delivery-query option is present.
func structured(opts searchOptions) bool {
	return opts.selector != "" || len(opts.filters) > 0 || len(opts.sorts) > 0 ||
		opts.culture != "" || opts.preview || opts.member != "" || len(opts.roles) > 0
}

// runDeliverySearch composes selector, filters and sort into one operation
// and executes it.
func runDeliverySearch(ctx context.Context, a *app, searcher search.Searcher, term string, opts searchOptions) (search.Results, error) {
	memSearcher, ok := searcher.(*store.Searcher)
	if !ok {
		return search.Results{}, fmt.Errorf("searcher %q does not support structured queries", opts.index)
	}

	schema := a.schemas[opts.index]
	selector, err := parseSelector(opts.selector)
	if err != nil {
		return search.Results{}, err
	}
	filters, err := parseFilters(opts.filters)
	if err != nil {
		return search.Results{}, err
	}
	sorts, err := parseSorts(opts.sorts)
	if err != nil {
		return search.Results{}, err
	}

	access := delivery.ProtectedAccess{MemberKey: opts.member, Roles: opts.roles}

	op := delivery.NewQueryFactory().Create()
	op.AndMatch(term)
	delivery.NewSelectorBuilder(a.cfg.Delivery.MemberAuthEnabled).
		Build(op, selector, opts.culture, access, opts.preview)
	delivery.NewFilterBuilder(schema, nil).Append(filters, op)
	delivery.NewSortBuilder(schema, nil).Append(sorts, op)

	return memSearcher.ExecuteOperation(ctx, op, opts.page, opts.pageSize), nil
}

func renderResults(cmd *cobra.Command, out *ui.Output, results search.Results, opts searchOptions) error {
	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	out.Header(fmt.Sprintf("%d matches (page %d, %d per page)", results.Total, opts.page, results.PageSize))
	for i, item := range results.Items {
		out.Printf("%2d. %s\n", opts.page*results.PageSize+i+1, item.ID)
		out.Dimf("    score=%.4f", item.Score)
	}
	if len(results.Items) == 0 {
		out.Dimf("no results")
	}
	return nil
}

func parseSelector(raw string) (delivery.SelectorOption, error) {
	if raw == "" {
		return delivery.SelectorOption{}, nil
	}
	field, values, ok := strings.Cut(raw, ":")
	if !ok || field == "" {
		return delivery.SelectorOption{}, fmt.Errorf("invalid selector %q, want field:value|value", raw)
	}
	return delivery.SelectorOption{FieldName: field, Values: splitValues(values)}, nil
}

func parseFilters(raw []string) ([]delivery.FilterOption, error) {
	filters := make([]delivery.FilterOption, 0, len(raw))
	for _, arg := range raw {
		parts := strings.SplitN(arg, ":", 3)
		if len(parts) != 3 || parts[0] == "" {
			return nil, fmt.Errorf("invalid filter %q, want field:operator:value", arg)
		}
		operator, err := parseOperator(parts[1])
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", arg, err)
		}
		filters = append(filters, delivery.FilterOption{
			FieldName: parts[0],
			Operator:  operator,
			Values:    splitValues(parts[2]),
		})
	}
	return filters, nil
}

func parseOperator(name string) (delivery.FilterOperator, error) {
	switch name {
	case "is":
		return delivery.Is, nil
	case "isNot":
		return delivery.IsNot, nil
	case "contains":
		return delivery.Contains, nil
	case "doesNotContain":
		return delivery.DoesNotContain, nil
	case "lt":
		return delivery.LessThan, nil
	case "lte":
		return delivery.LessThanOrEqual, nil
	case "gt":
		return delivery.GreaterThan, nil
	case "gte":
		return delivery.GreaterThanOrEqual, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", name)
	}
}

func parseSorts(raw []string) ([]delivery.SortOption, error) {
	sorts := make([]delivery.SortOption, 0, len(raw))
	for _, arg := range raw {
		field, direction, _ := strings.Cut(arg, ":")
		if field == "" {
			return nil, fmt.Errorf("invalid sort %q, want field:asc|desc", arg)
		}
		sort := delivery.SortOption{FieldName: field}
		switch direction {
		case "", "asc":
		case "desc":
			sort.Direction = delivery.Descending
		default:
			return nil, fmt.Errorf("invalid sort direction %q in %q", direction, arg)
		}
		sorts = append(sorts, sort)
	}
	return sorts, nil
}

func splitValues(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "|")
}
