// Command archive2dna-server runs the HTTP façade over the codec,
// mirroring archive2dna's api.py (Flask's app.run) as a net/http
// server fronted by a gorilla/mux router.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/jbkrause/archive2dna/internal/config"
	"github.com/jbkrause/archive2dna/internal/dnalog"
	"github.com/jbkrause/archive2dna/internal/httpapi"
)

func main() {
	addr := pflag.StringP("listen", "l", ":5000", "Address to listen on, matching api.py's default Flask port.")
	configFile := pflag.StringP("config-file", "c", "", "INI configuration file (default: built-in DEFAULT parameters).")
	section := pflag.StringP("parameters", "p", "DEFAULT", "Named parameter section within the config file.")
	logLevel := pflag.StringP("log-level", "v", "info", "Log level: debug, info, warn, error.")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "archive2dna-server - HTTP facade over the DNA archival codec.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: archive2dna-server [options]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	log := dnalog.New(*logLevel)

	params, err := config.Load(*configFile, *section)
	if err != nil {
		log.Error("loading configuration", "err", err)
		os.Exit(1)
	}

	s, err := httpapi.NewServer(params, log)
	if err != nil {
		log.Error("building server", "err", err)
		os.Exit(1)
	}

	log.Info("listening", "addr", *addr, "parameters", params.Name)
	if err := http.ListenAndServe(*addr, s.Router()); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}
