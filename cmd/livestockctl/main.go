// livestockctl es un cliente de línea de comandos para la API de livestock.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"livestock-records/internal/platform/httpclient"
)

const usage = `usage: livestockctl [-addr URL] <command> [args]

commands:
  animals                              lista animales
  treatments [-type T] [-animal ID] [-month YYYY-MM]
  feeding                              lista registros de alimentación
  breeding                             lista servicios
  dashboard                            cifras generales
  export [file]                        backup completo (stdout si no hay file)
  import <file>                        reemplaza todo por el backup
  delete <animal|treatment|feeding|breeding> <id>
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("livestockctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	defAddr := os.Getenv("LIVESTOCK_ADDR")
	if defAddr == "" {
		defAddr = "http://localhost:8080"
	}
	addr := fs.String("addr", defAddr, "base URL de la API")
	timeout := fs.Duration("timeout", httpclient.DefaultTimeout, "timeout por request")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	client, err := httpclient.New(*addr, *timeout, nil)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	client.MaxBody = 256 << 20

	c := &cli{api: client, out: stdout}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	switch cmd {
	case "animals":
		err = c.animals(ctx)
	case "treatments":
		err = c.treatments(ctx, rest, stderr)
	case "feeding":
		err = c.feeding(ctx)
	case "breeding":
		err = c.breeding(ctx)
	case "dashboard":
		err = c.dashboard(ctx)
	case "export":
		err = c.export(ctx, rest)
	case "import":
		err = c.importFile(ctx, rest)
	case "delete":
		err = c.delete(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	if errors.Is(err, errUsage) {
		fs.Usage()
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

type cli struct {
	api *httpclient.Client
	out io.Writer
}

func (c *cli) table(header string, rows func(w io.Writer)) error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

type animal struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Breed  string   `json:"breed"`
	Age    string   `json:"age"`
	Gender string   `json:"gender"`
	Weight *float64 `json:"weight"`
	Status string   `json:"status"`
}

func (c *cli) animals(ctx context.Context) error {
	var list []animal
	if err := c.api.Get(ctx, "/animals", nil, &list); err != nil {
		return err
	}
	return c.table("ID\tNAME\tTYPE\tBREED\tAGE\tGENDER\tWEIGHT\tSTATUS", func(w io.Writer) {
		for _, a := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				a.ID, a.Name, a.Type, a.Breed, a.Age, a.Gender, optNumber(a.Weight), a.Status)
		}
	})
}

type treatment struct {
	ID         string    `json:"id"`
	AnimalName string    `json:"animal_name"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	Cost       *float64  `json:"cost"`
}

func (c *cli) treatments(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("treatments", flag.ContinueOnError)
	fs.SetOutput(stderr)
	typ := fs.String("type", "", "tipo de tratamiento")
	animalID := fs.String("animal", "", "ID del animal")
	month := fs.String("month", "", "mes YYYY-MM")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	q := url.Values{}
	if *typ != "" {
		q.Set("type", *typ)
	}
	if *animalID != "" {
		q.Set("animal_id", *animalID)
	}
	if *month != "" {
		q.Set("month", *month)
	}

	var list []treatment
	if err := c.api.Get(ctx, "/treatments", q, &list); err != nil {
		return err
	}
	return c.table("ID\tDATE\tANIMAL\tTYPE\tNAME\tCOST", func(w io.Writer) {
		for _, t := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Date.Format("2006-01-02 15:04"), t.AnimalName, t.Type, t.Name, optNumber(t.Cost))
		}
	})
}

type feeding struct {
	ID         string    `json:"id"`
	AnimalName string    `json:"animal_name"`
	FeedType   string    `json:"feed_type"`
	Amount     float64   `json:"amount"`
	Time       time.Time `json:"time"`
}

func (c *cli) feeding(ctx context.Context) error {
	var list []feeding
	if err := c.api.Get(ctx, "/feeding", nil, &list); err != nil {
		return err
	}
	return c.table("ID\tTIME\tANIMAL\tFEED\tAMOUNT", func(w io.Writer) {
		for _, f := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\n",
				f.ID, f.Time.Format("2006-01-02 15:04"), f.AnimalName, f.FeedType, f.Amount)
		}
	})
}

type breeding struct {
	ID                string    `json:"id"`
	FemaleName        string    `json:"female_name"`
	MaleName          string    `json:"male_name"`
	Date              time.Time `json:"date"`
	Method            string    `json:"method"`
	ExpectedBirthDate string    `json:"expected_birth_date"`
}

func (c *cli) breeding(ctx context.Context) error {
	var list []breeding
	if err := c.api.Get(ctx, "/breeding", nil, &list); err != nil {
		return err
	}
	return c.table("ID\tDATE\tFEMALE\tMALE\tMETHOD\tDUE", func(w io.Writer) {
		for _, b := range list {
			due := b.ExpectedBirthDate
			if due == "" {
				due = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				b.ID, b.Date.Format("2006-01-02"), b.FemaleName, b.MaleName, b.Method, due)
		}
	})
}

type dashboard struct {
	TotalAnimals            int     `json:"total_animals"`
	TotalTreatments         int     `json:"total_treatments"`
	TotalFeeding            int     `json:"total_feeding"`
	TotalBreeding           int     `json:"total_breeding"`
	TreatmentsThisMonth     int     `json:"treatments_this_month"`
	TreatmentCostTotal      float64 `json:"treatment_cost_total"`
	FeedingToday            int     `json:"feeding_today"`
	FeedAmountToday         float64 `json:"feed_amount_today"`
	AnimalsNeedingAttention int     `json:"animals_needing_attention"`
}

func (c *cli) dashboard(ctx context.Context) error {
	var d dashboard
	if err := c.api.Get(ctx, "/dashboard", nil, &d); err != nil {
		return err
	}
	return c.table("METRIC\tVALUE", func(w io.Writer) {
		fmt.Fprintf(w, "animals\t%d\n", d.TotalAnimals)
		fmt.Fprintf(w, "needing attention\t%d\n", d.AnimalsNeedingAttention)
		fmt.Fprintf(w, "treatments\t%d\n", d.TotalTreatments)
		fmt.Fprintf(w, "treatments this month\t%d\n", d.TreatmentsThisMonth)
		fmt.Fprintf(w, "treatment cost\t%.2f\n", d.TreatmentCostTotal)
		fmt.Fprintf(w, "feeding records\t%d\n", d.TotalFeeding)
		fmt.Fprintf(w, "fed today\t%d (%g kg)\n", d.FeedingToday, d.FeedAmountToday)
		fmt.Fprintf(w, "breeding records\t%d\n", d.TotalBreeding)
	})
}

func (c *cli) export(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	var raw json.RawMessage
	if err := c.api.Get(ctx, "/export", nil, &raw); err != nil {
		return err
	}
	if len(args) == 0 {
		_, err := fmt.Fprintln(c.out, string(raw))
		return err
	}
	if err := os.WriteFile(args[0], raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", args[0], err)
	}
	fmt.Fprintf(c.out, "exported to %s\n", args[0])
	return nil
}

func (c *cli) importFile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	if !json.Valid(b) {
		return fmt.Errorf("%s is not valid json", args[0])
	}

	var res struct {
		Message string `json:"message"`
	}
	if err := c.api.Post(ctx, "/import", json.RawMessage(b), &res); err != nil {
		return err
	}
	fmt.Fprintln(c.out, res.Message)
	return nil
}

var deletePaths = map[string]string{
	"animal":    "/animals/",
	"treatment": "/treatments/",
	"feeding":   "/feeding/",
	"breeding":  "/breeding/",
}

func (c *cli) delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	prefix, ok := deletePaths[args[0]]
	if !ok {
		return errUsage
	}

	var res struct {
		Message string `json:"message"`
		Cascade *struct {
			Treatments int `json:"treatments"`
			Feeding    int `json:"feeding"`
			Breeding   int `json:"breeding"`
		} `json:"cascade"`
	}
	if err := c.api.Delete(ctx, prefix+url.PathEscape(args[1]), &res); err != nil {
		return err
	}
	fmt.Fprintln(c.out, res.Message)
	if res.Cascade != nil {
		fmt.Fprintf(c.out, "also removed: %d treatments, %d feeding, %d breeding\n",
			res.Cascade.Treatments, res.Cascade.Feeding, res.Cascade.Breeding)
	}
	return nil
}

func optNumber(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *f)
}
