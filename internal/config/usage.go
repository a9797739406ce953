package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/agbru/matnn/internal/ui"
)

// usageSections orders the flags on the help screen. Flags not listed
// here are printed last under "Other".
var usageSections = []struct {
	title string
	flags []string
}{
	{"Operands", []string{"a", "b", "size", "seed"}},
	{"Strassen engine", []string{"algo", "min-size", "parallel-depth", "workers", "sequential", "tolerance", "timeout"}},
	{"Training", []string{"train", "train-x", "train-y", "classes", "hidden", "epochs", "batch-size", "lr"}},
	{"Calibration and server", []string{"calibrate", "calibration-profile", "server", "port"}},
	{"Output", []string{"output", "o", "v", "json", "quiet", "q", "no-color", "log-level"}},
}

// setCustomUsage installs a coloured, sectioned usage screen on fs.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}
		out := fs.Output()
		prog := fs.Name()

		fmt.Fprintf(out, "\n%smatnn%s - dense matrix products (naive and parallel Strassen) and hand-built networks\n\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "%sUsage:%s\n", t.Warning, t.Reset)
		for _, example := range []string{
			"[flags]",
			"-a A.txt -b B.txt -algo strassen",
			"-train -train-x X.txt -train-y y.txt -classes 3",
		} {
			fmt.Fprintf(out, "  %s %s\n", prog, example)
		}

		listed := make(map[string]bool)
		for _, section := range usageSections {
			fmt.Fprintf(out, "\n%s%s:%s\n", t.Warning, section.title, t.Reset)
			for _, name := range section.flags {
				if f := fs.Lookup(name); f != nil {
					printFlag(out, t, f)
					listed[name] = true
				}
			}
		}

		header := false
		fs.VisitAll(func(f *flag.Flag) {
			if listed[f.Name] {
				return
			}
			if !header {
				fmt.Fprintf(out, "\n%sOther:%s\n", t.Warning, t.Reset)
				header = true
			}
			printFlag(out, t, f)
		})

		fmt.Fprintf(out, "\nEvery flag can also be set through a %sNAME variable (e.g. %sMIN_SIZE=128).\n\n", EnvPrefix, EnvPrefix)
	}
}

func printFlag(out io.Writer, t ui.Theme, f *flag.Flag) {
	arg, help := flag.UnquoteUsage(f)
	sig := "-" + f.Name
	if arg != "" {
		sig += " " + arg
	}
	fmt.Fprintf(out, "  %s%-26s%s %s", t.Primary, sig, t.Reset, help)
	switch f.DefValue {
	case "", "0", "false":
	default:
		fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
	}
	fmt.Fprintln(out)
}
