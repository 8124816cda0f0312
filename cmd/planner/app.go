package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkordes/rv-planner/internal/catalog"
	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/service"
	"github.com/pkordes/rv-planner/internal/tui"
	"github.com/pkordes/rv-planner/internal/view"
)

const usage = `Usage: planner [-user id] [-db path] [-accessible] <command> [flags] [args]

Commands:
  list      [-folder f] [-type t] [-region r] [-search s] [-page n] [-limit n]
  map       [-folder f] [-type t] [-region r] [-search s]
  discover  [-region r] [-type t] [-search s]
  add       -name n -state s [-type t] [-region r] [-lat x -lon y] [...]
  adopt     [-from list|map] <catalog-id>
  toggle    <id>
  edit      <id>
  delete    <id>
  file      <id>
  folders
  folder-create [name]
  folder-rename <folder-id> <name>
  folder-delete <folder-id>
  export    [-o path|-]
  import    <path|->
`

// app runs planner commands for one owner against the services.
type app struct {
	owner        string
	destinations *service.DestinationService
	folders      *service.FolderService
	export       *service.ExportService
	catalog      *catalog.Provider
	dialog       service.Dialog

	in  io.Reader
	out io.Writer
}

// actions binds the per-card actions of the rendered views to the services.
func (a *app) actions() view.Actions {
	return view.Actions{
		view.ActionToggleVisited: func(ctx context.Context, id string) error {
			d, err := a.destinations.ToggleVisited(ctx, a.owner, id, a.dialog)
			if err != nil {
				return err
			}
			if d.Visited() {
				fmt.Fprintf(a.out, "Marked %s as visited.\n", d.Name)
				return nil
			}
			fmt.Fprintf(a.out, "Moved %s back to your wishlist.\n", d.Name)
			return nil
		},
		view.ActionEdit: func(ctx context.Context, id string) error {
			d, err := a.destinations.Edit(ctx, a.owner, id, a.dialog)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %s.\n", d.Name)
			return nil
		},
		view.ActionDelete: func(ctx context.Context, id string) error {
			if err := a.destinations.Delete(ctx, a.owner, id, a.dialog); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Destination deleted.")
			return nil
		},
		view.ActionAddToFolder: func(ctx context.Context, id string) error {
			d, err := a.destinations.AssignFolder(ctx, a.owner, id, a.dialog)
			if err != nil {
				return err
			}
			if d.FolderID == "" {
				fmt.Fprintf(a.out, "%s is unfiled.\n", d.Name)
				return nil
			}
			fmt.Fprintf(a.out, "Filed %s.\n", d.Name)
			return nil
		},
		view.ActionAddToCollection: func(ctx context.Context, id string) error {
			return a.adopt(ctx, id, service.OriginList)
		},
		view.ActionLogVisit: func(ctx context.Context, id string) error {
			return a.adopt(ctx, id, service.OriginMap)
		},
	}
}

// run executes one command. A cancelled dialog is not an error.
func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return nil
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "list":
		err = a.list(ctx, rest)
	case "map":
		err = a.showMap(ctx, rest)
	case "discover":
		err = a.discover(ctx, rest)
	case "add":
		err = a.add(ctx, rest)
	case "adopt":
		err = a.adoptCmd(ctx, rest)
	case "toggle":
		err = a.dispatch(ctx, view.ActionToggleVisited, rest)
	case "edit":
		err = a.dispatch(ctx, view.ActionEdit, rest)
	case "delete":
		err = a.dispatch(ctx, view.ActionDelete, rest)
	case "file":
		err = a.dispatch(ctx, view.ActionAddToFolder, rest)
	case "folders":
		err = a.sidebar(ctx)
	case "folder-create":
		err = a.folderCreate(ctx, rest)
	case "folder-rename":
		err = a.folderRename(ctx, rest)
	case "folder-delete":
		err = a.folderDelete(ctx, rest)
	case "export":
		err = a.exportCmd(ctx, rest)
	case "import":
		err = a.importCmd(ctx, rest)
	case "help":
		fmt.Fprint(a.out, usage)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	if errors.Is(err, domain.ErrCancelled) {
		fmt.Fprintln(a.out, "Cancelled. Nothing was changed.")
		return nil
	}
	return err
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// filterFlags registers the list filters on fs.
func filterFlags(fs *flag.FlagSet) *domain.FilterState {
	f := &domain.FilterState{}
	fs.StringVar(&f.Folder, "folder", domain.FolderAll, "folder ID, or all, wishlist, visited")
	fs.StringVar(&f.Type, "type", domain.FilterAll, "destination type")
	fs.StringVar(&f.Region, "region", domain.FilterAll, "region")
	fs.StringVar(&f.Search, "search", "", "search text")
	return f
}

// --- views ---

func (a *app) list(ctx context.Context, args []string) error {
	fs := a.newFlagSet("list")
	f := filterFlags(fs)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "destinations per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	collection, err := a.destinations.List(ctx, a.owner)
	if err != nil {
		return err
	}
	folders, err := a.folders.List(ctx, a.owner)
	if err != nil {
		return err
	}

	state := f.Normalize()
	working := view.Merge(collection, a.catalog.ListCurated(), state)
	v := view.RenderList(working.List, folders, state, domain.NewPaginationParams(page, limit))
	fmt.Fprintln(a.out, tui.RenderList(v))
	return nil
}

func (a *app) showMap(ctx context.Context, args []string) error {
	fs := a.newFlagSet("map")
	f := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	collection, err := a.destinations.List(ctx, a.owner)
	if err != nil {
		return err
	}
	working := view.Merge(collection, a.catalog.ListCurated(), f.Normalize())
	fmt.Fprintln(a.out, tui.RenderMap(view.RenderMap(working.Pins)))
	return nil
}

func (a *app) discover(ctx context.Context, args []string) error {
	fs := a.newFlagSet("discover")
	var region, typ, search string
	fs.StringVar(&region, "region", "", "region")
	fs.StringVar(&typ, "type", "", "destination type")
	fs.StringVar(&search, "search", "", "search text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries := a.catalog.ListDiscoverable(catalog.DiscoverFilter{Region: region, Type: typ})
	if len(entries) == 0 {
		fmt.Fprintln(a.out, tui.RenderCatalog(nil))
		return nil
	}
	collection, err := a.destinations.List(ctx, a.owner)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tui.RenderCatalog(view.Discover(collection, entries, search)))
	return nil
}

func (a *app) sidebar(ctx context.Context) error {
	collection, err := a.destinations.List(ctx, a.owner)
	if err != nil {
		return err
	}
	folders, err := a.folders.List(ctx, a.owner)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tui.RenderSidebar(view.FolderCounts(collection, folders)))
	return nil
}

// --- destinations ---

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	var d domain.Destination
	var typ, priority, season string
	fs.StringVar(&d.Name, "name", "", "destination name (required)")
	fs.StringVar(&d.State, "state", "", "state (required)")
	fs.StringVar(&typ, "type", "", "destination type")
	fs.StringVar(&d.Region, "region", "", "region")
	fs.Func("lat", "latitude", floatFlag(&d.Latitude))
	fs.Func("lon", "longitude", floatFlag(&d.Longitude))
	fs.StringVar(&priority, "priority", "", "wishlist, high, medium or low")
	fs.StringVar(&season, "season", "", "any, spring, summer, fall or winter")
	fs.StringVar(&d.BestSeason, "best-season", "", "best time to visit")
	fs.StringVar(&d.EstimatedCost, "cost", "", "estimated cost")
	fs.BoolVar(&d.RVCamping, "rv-camping", false, "RV camping available")
	fs.StringVar(&d.RVCampingDetails, "rv-camping-details", "", "RV camping details")
	fs.StringVar(&d.MustSee, "must-see", "", "highlights")
	fs.StringVar(&d.Notes, "notes", "", "notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if d.Type, err = domain.ParseDestinationType(typ); err != nil {
		return err
	}
	if priority != "" {
		if d.Priority, err = domain.ParsePriority(priority); err != nil {
			return err
		}
	}
	if season != "" {
		if d.Season, err = domain.ParseSeason(season); err != nil {
			return err
		}
	}

	created, err := a.destinations.Add(ctx, a.owner, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (%s).\n", created.Name, created.ID)
	return nil
}

func floatFlag(dst **float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func (a *app) adoptCmd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("adopt")
	from := fs.String("from", string(service.OriginList), "list adds to the wishlist, map logs a visit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs)
	if err != nil {
		return err
	}
	origin, err := service.ParseOrigin(*from)
	if err != nil {
		return err
	}
	kind := view.ActionAddToCollection
	if origin == service.OriginMap {
		kind = view.ActionLogVisit
	}
	return a.actions().Dispatch(ctx, view.ActionRef{Kind: kind, ID: id})
}

func (a *app) adopt(ctx context.Context, id string, origin service.Origin) error {
	d, err := a.destinations.AddFromCatalog(ctx, a.owner, id, origin)
	if err != nil {
		return err
	}
	if d.Visited() {
		fmt.Fprintf(a.out, "Logged your visit to %s.\n", d.Name)
		return nil
	}
	fmt.Fprintf(a.out, "Added %s to your wishlist.\n", d.Name)
	return nil
}

// dispatch runs a card action on the destination named by the only
// positional argument.
func (a *app) dispatch(ctx context.Context, kind view.ActionKind, args []string) error {
	fs := a.newFlagSet(tui.CommandFor(kind))
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs)
	if err != nil {
		return err
	}
	return a.actions().Dispatch(ctx, view.ActionRef{Kind: kind, ID: id})
}

func oneArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one id, got %d arguments", fs.Name(), fs.NArg())
	}
	return fs.Arg(0), nil
}

// --- folders ---

func (a *app) folderCreate(ctx context.Context, args []string) error {
	var (
		f   domain.Folder
		err error
	)
	if name := strings.Join(args, " "); strings.TrimSpace(name) != "" {
		f, err = a.folders.Create(ctx, a.owner, name)
	} else {
		f, err = a.folders.Prompt(ctx, a.owner, a.dialog)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created folder %s (%s).\n", f.Name, f.ID)
	return nil
}

func (a *app) folderRename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("folder-rename: expected a folder id and a name")
	}
	f, err := a.folders.Rename(ctx, a.owner, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Renamed folder to %s.\n", f.Name)
	return nil
}

func (a *app) folderDelete(ctx context.Context, args []string) error {
	fs := a.newFlagSet("folder-delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs)
	if err != nil {
		return err
	}
	if err := a.folders.Delete(ctx, a.owner, id, a.dialog); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Folder deleted.")
	return nil
}

// --- backup ---

func (a *app) exportCmd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("export")
	path := fs.String("o", "", "output file, - for stdout (default: dated backup name)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := a.export.Export(ctx, a.owner)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}

	switch *path {
	case "-":
		_, err = fmt.Fprintln(a.out, string(b))
		return err
	case "":
		*path = service.Filename(doc.ExportDate)
	}
	if err := os.WriteFile(*path, b, 0o600); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(a.out, "Exported %d destinations to %s.\n", len(doc.Data), *path)
	return nil
}

func (a *app) importCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import: expected a file path or -")
	}

	var (
		raw []byte
		err error
	)
	if args[0] == "-" {
		raw, err = io.ReadAll(a.in)
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	res, err := a.export.Import(ctx, a.owner, raw, a.dialog)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Imported %d destinations", res.Destinations)
	if !res.FoldersKept {
		msg += fmt.Sprintf(" and %d folders", res.Folders)
	}
	fmt.Fprintln(a.out, msg+".")
	return nil
}
