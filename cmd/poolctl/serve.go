package main

import (
	"math/rand"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"github.com/joshuapare/poolkit/pool"
)

var (
	servePreset string
	serveSpecs  []string
	serveListen string
	serveLive   int
)

func init() {
	cmd := newServeCmd()
	cmd.Flags().StringVar(&servePreset, "preset", "default", "Preset class table (default, fine, coarse)")
	cmd.Flags().
		StringArrayVar(&serveSpecs, "class", nil, "Ad-hoc size class as BLOCKSIZE:COUNT (repeatable, overrides --preset)")
	cmd.Flags().StringVar(&serveListen, "listen", ":8080", "Listen address for the stats endpoint")
	cmd.Flags().IntVar(&serveLive, "live", 256, "Maximum outstanding allocations in the churn workload")
	rootCmd.AddCommand(cmd)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a churn workload and serve live allocator stats",
		Long: `The serve command runs a continuous alloc/free churn against a locked
manager and exposes live statistics over HTTP for soak observation:

  GET /stats    allocator statistics as JSON
  GET /healthz  readiness probe

Example:
  poolctl serve --listen :8080 --preset fine`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	classes, err := resolveClasses(servePreset, serveSpecs)
	if err != nil {
		return err
	}
	lm, err := pool.NewLockedManager(classes, nil)
	if err != nil {
		return err
	}
	defer lm.Close()

	go churn(lm, int(maxBlockSize(classes)), serveLive)

	handler := func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/healthz":
			ctx.SetStatusCode(fasthttp.StatusOK)
			ctx.SetBodyString("ok")
		case "/stats":
			out, err := json.Marshal(lm.Stats())
			if err != nil {
				ctx.SetStatusCode(fasthttp.StatusInternalServerError)
				return
			}
			ctx.SetContentType("application/json")
			ctx.SetBody(out)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	}

	printInfo("serving allocator stats on %s\n", serveListen)
	return fasthttp.ListenAndServe(serveListen, handler)
}

// churn keeps a bounded set of outstanding allocations and loops forever,
// so /stats always shows a pool under realistic pressure.
func churn(lm *pool.LockedManager, maxSize, maxLive int) {
	rng := rand.New(rand.NewSource(1))
	live := make([]pool.Ref, 0, maxLive)
	for {
		if len(live) == maxLive || (len(live) > 0 && rng.Intn(2) == 0) {
			j := rng.Intn(len(live))
			_ = lm.Free(live[j])
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}
		ref, _, err := lm.Alloc(int32(1 + rng.Intn(maxSize)))
		if err != nil {
			continue
		}
		live = append(live, ref)
	}
}
