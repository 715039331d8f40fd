// Package logs holds the verbosity levels and klog flag wiring shared by the
// sigchat command and libraries.
package logs

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

// sigchat writes logs in klog text format to stderr. Chat output for the user
// goes to stdout separately, so logs never interleave with the conversation
// unless the user asks for it.

const (
	// Standard log verbosity levels.
	// Use these instead of integers in sigchat code.
	Info  = 0
	Debug = 1
	Trace = 2
)

// All but the essential logging flags are hidden. The hidden flags can
// still be used.
var visibleFlagNames = map[string]bool{
	"v":       true,
	"vmodule": true,
}

// AddFlags adds the klog flags to the supplied flag set, renaming --v to
// --log-level.
func AddFlags(fs *pflag.FlagSet) {
	var gfs flag.FlagSet
	klog.InitFlags(&gfs)

	var tfs pflag.FlagSet
	tfs.AddGoFlagSet(&gfs)
	tfs.VisitAll(func(f *pflag.Flag) {
		if !visibleFlagNames[f.Name] {
			_ = tfs.MarkHidden(f.Name)
		}
		if f.Name == "v" {
			f.Name = "log-level"
			f.Shorthand = "v"
			f.Usage = fmt.Sprintf("%s. 0=Info, 1=Debug, 2=Trace. (default: 0)", f.Usage)
		}
	})
	fs.AddFlagSet(&tfs)
}

// Initialize routes the standard library logger through klog so that every
// log line shares one format.
func Initialize() {
	log.SetFlags(0)
	log.SetOutput(LogToKlogWriter{Log: klog.Background(), Source: "stdlib"})
}

// LogToKlogWriter adapts a logr.Logger to an io.Writer for log.SetOutput.
type LogToKlogWriter struct {
	Log    logr.Logger
	Source string
}

func (w LogToKlogWriter) Write(p []byte) (n int, err error) {
	// log.Printf writes a newline at the end of the message, so we need to trim
	// it.
	message := string(bytes.TrimSuffix(p, []byte("\n")))

	if strings.Contains(message, "error") ||
		strings.Contains(message, "failed") {
		w.Log.WithValues("source", w.Source).Error(nil, message)
	} else {
		w.Log.WithValues("source", w.Source).Info(message)
	}
	return len(p), nil
}
