package main

import (
	"flag"
	"log/slog"
	"os"

	"craneguard/internal/dashboard"
)

func main() {
	out := flag.String("out", "build", "output directory for rendered dashboards")
	flag.Parse()
	if err := dashboard.Render(*out); err != nil {
		slog.Error("render dashboards", "err", err)
		os.Exit(1)
	}
}
