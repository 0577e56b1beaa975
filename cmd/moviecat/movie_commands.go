package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"moviecat/internal/api"
	"moviecat/internal/catalog"
)

func newMovieCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newListCommand(ctx),
		newGetCommand(ctx),
		newAddCommand(ctx),
		newUpdateCommand(ctx),
		newDeleteCommand(ctx),
	}
}

type listFlags struct {
	titleEquals   string
	titleContains string
	genre         string
	director      string
	actor         string
	minRating     float64
	minYear       int
	maxYear       int
	year          int
	minRuntime    int
	maxRuntime    int
	limit         int
	sortBy        string
	order         string
	fields        []string
}

func (f *listFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.titleEquals, "title", "", "Exact title (case-insensitive)")
	fs.StringVar(&f.titleContains, "title-contains", "", "Title substring")
	fs.StringVar(&f.genre, "genre", "", "Genre substring")
	fs.StringVar(&f.director, "director", "", "Director substring")
	fs.StringVar(&f.actor, "actor", "", "Actor substring")
	fs.Float64Var(&f.minRating, "min-rating", 0, "Minimum rating")
	fs.IntVar(&f.minYear, "min-year", 0, "Earliest release year")
	fs.IntVar(&f.maxYear, "max-year", 0, "Latest release year")
	fs.IntVar(&f.year, "year", 0, "Exact release year")
	fs.IntVar(&f.minRuntime, "min-runtime", 0, "Minimum runtime in minutes")
	fs.IntVar(&f.maxRuntime, "max-runtime", 0, "Maximum runtime in minutes")
	fs.IntVarP(&f.limit, "limit", "n", 0, "Maximum number of results")
	fs.StringVar(&f.sortBy, "sort", "", "Sort field: "+strings.Join(catalog.SortFields(), ", "))
	fs.StringVar(&f.order, "order", "", "Sort order: asc or desc")
	fs.StringSliceVar(&f.fields, "fields", nil, "Fields to show")
}

func (f *listFlags) request(fs *pflag.FlagSet) api.Request {
	var filter catalog.Filter
	if fs.Changed("title") {
		filter.TitleEquals = catalog.String(f.titleEquals)
	}
	if fs.Changed("title-contains") {
		filter.TitleContains = catalog.String(f.titleContains)
	}
	if fs.Changed("genre") {
		filter.GenreContains = catalog.String(f.genre)
	}
	if fs.Changed("director") {
		filter.DirectorContains = catalog.String(f.director)
	}
	if fs.Changed("actor") {
		filter.ActorContains = catalog.String(f.actor)
	}
	if fs.Changed("min-rating") {
		filter.MinRating = catalog.Float(f.minRating)
	}
	if fs.Changed("min-year") {
		filter.MinYear = catalog.Int(f.minYear)
	}
	if fs.Changed("max-year") {
		filter.MaxYear = catalog.Int(f.maxYear)
	}
	if fs.Changed("year") {
		filter.ExactYear = catalog.Int(f.year)
	}
	if fs.Changed("min-runtime") {
		filter.MinRuntime = catalog.Int(f.minRuntime)
	}
	if fs.Changed("max-runtime") {
		filter.MaxRuntime = catalog.Int(f.maxRuntime)
	}

	req := api.Request{Operation: api.OpListMovies, SortBy: f.sortBy, Order: f.order, Fields: f.fields}
	if !filter.IsZero() {
		req.Filter = &filter
	}
	if fs.Changed("limit") {
		req.Limit = catalog.Int(f.limit)
	}
	return req
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies matching filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.readOnlyService()
			if err != nil {
				return err
			}
			req := flags.request(cmd.Flags())
			res, err := svc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printResult(cmd, ctx, req, res)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newGetCommand(ctx *commandContext) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "get <title>",
		Short: "Show one movie by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.readOnlyService()
			if err != nil {
				return err
			}
			req := api.Request{Operation: api.OpGetMovie, Title: args[0], Fields: fields}
			res, err := svc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printResult(cmd, ctx, req, res)
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Fields to show")
	return cmd
}

type movieFlags struct {
	title       string
	genre       string
	description string
	director    string
	actors      string
	year        int
	runtime     int
	rating      float64
	votes       int
	revenue     float64
}

func (f *movieFlags) register(fs *pflag.FlagSet, withTitle bool) {
	if withTitle {
		fs.StringVar(&f.title, "title", "", "Movie title (required)")
	}
	fs.StringVar(&f.genre, "genre", "", "Comma-separated genres")
	fs.StringVar(&f.description, "description", "", "Plot summary")
	fs.StringVar(&f.director, "director", "", "Director")
	fs.StringVar(&f.actors, "actors", "", "Comma-separated cast")
	fs.IntVar(&f.year, "year", 0, "Release year")
	fs.IntVar(&f.runtime, "runtime", 0, "Runtime in minutes")
	fs.Float64Var(&f.rating, "rating", 0, "Rating from 0 to 10")
	fs.IntVar(&f.votes, "votes", 0, "Vote count")
	fs.Float64Var(&f.revenue, "revenue", 0, "Revenue in millions")
}

func (f *movieFlags) input() catalog.MovieInput {
	return catalog.MovieInput{
		Title:       f.title,
		Genre:       f.genre,
		Description: f.description,
		Director:    f.director,
		Actors:      f.actors,
	}
}

func (f *movieFlags) update(fs *pflag.FlagSet) catalog.MovieUpdate {
	var u catalog.MovieUpdate
	if fs.Changed("genre") {
		u.Genre = catalog.String(f.genre)
	}
	if fs.Changed("description") {
		u.Description = catalog.String(f.description)
	}
	if fs.Changed("director") {
		u.Director = catalog.String(f.director)
	}
	if fs.Changed("actors") {
		u.Actors = catalog.String(f.actors)
	}
	if fs.Changed("year") {
		u.Year = catalog.Int(f.year)
	}
	if fs.Changed("runtime") {
		u.Runtime = catalog.Int(f.runtime)
	}
	if fs.Changed("rating") {
		u.Rating = catalog.Float(f.rating)
	}
	if fs.Changed("votes") {
		u.Votes = catalog.Int(f.votes)
	}
	if fs.Changed("revenue") {
		u.Revenue = catalog.Float(f.revenue)
	}
	return u
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var flags movieFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a movie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := flags.input()
			// Numeric fields share the update flag handling so unset flags stay absent.
			u := flags.update(cmd.Flags())
			input.Year, input.Runtime, input.Rating, input.Votes, input.Revenue = u.Year, u.Runtime, u.Rating, u.Votes, u.Revenue
			raw, err := json.Marshal(input)
			if err != nil {
				return err
			}
			return runMutation(cmd, ctx, api.Request{Operation: api.OpCreateMovie, Input: raw})
		},
	}
	flags.register(cmd.Flags(), true)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var flags movieFlags
	cmd := &cobra.Command{
		Use:   "update <title>",
		Short: "Change fields of an existing movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := json.Marshal(flags.update(cmd.Flags()))
			if err != nil {
				return err
			}
			return runMutation(cmd, ctx, api.Request{Operation: api.OpUpdateMovie, Title: args[0], Input: raw})
		},
	}
	flags.register(cmd.Flags(), false)
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <title>",
		Short: "Delete every movie with the given title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, ctx, api.Request{Operation: api.OpDeleteMovie, Title: args[0]})
		},
	}
}

func runMutation(cmd *cobra.Command, ctx *commandContext, req api.Request) error {
	logger := ctx.cliLogger()
	st, err := ctx.openStore(logger)
	if err != nil {
		return err
	}
	defer st.Close()
	res, err := api.NewCatalogService(st, logger).Execute(cmd.Context(), req)
	if err != nil {
		return err
	}
	return printResult(cmd, ctx, req, res)
}

// printResult renders a catalog result as JSON or as a table.
func printResult(cmd *cobra.Command, ctx *commandContext, req api.Request, res api.Result) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, res)
	}
	out := cmd.OutOrStdout()
	fields := tableFields
	if len(req.Fields) > 0 {
		fields = req.Projection()
	}

	switch res.Operation {
	case api.OpListMovies:
		if len(res.Movies) == 0 {
			fmt.Fprintln(out, api.NoResultsMessage)
			return nil
		}
		fmt.Fprintln(out, renderMovies(res.Movies, fields))
		fmt.Fprintf(out, "%d movie(s)\n", len(res.Movies))
	case api.OpDeleteMovie:
		fmt.Fprintln(out, res.Message)
	default:
		if res.Found != nil && !*res.Found {
			fmt.Fprintln(out, res.Message)
			if len(res.Suggestions) > 0 {
				fmt.Fprintf(out, "Did you mean: %s?\n", strings.Join(res.Suggestions, ", "))
			}
			return nil
		}
		if len(req.Fields) == 0 {
			fields = catalog.FieldNames
		}
		switch res.Operation {
		case api.OpCreateMovie:
			fmt.Fprintln(out, "Movie added.")
		case api.OpUpdateMovie:
			fmt.Fprintln(out, "Movie updated.")
		}
		fmt.Fprintln(out, renderMovie(res.Movie, fields))
	}
	return nil
}
