package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"

	"github.com/xtding233/prd-engine/internal/prd"
	"github.com/xtding233/prd-engine/internal/profile"
)

type config struct {
	Addr          string        `env:"PRD_ADDR" envDefault:":8080"`
	ConfigDir     string        `env:"PRD_CONFIG_DIR" envDefault:"config"`
	WatchInterval time.Duration `env:"PRD_WATCH_INTERVAL" envDefault:"5s"`
}

type solveResp struct {
	Percentage  float64 `json:"percentage"`
	Coefficient float64 `json:"coefficient"`
	Err         string  `json:"err,omitempty"`
}

type rollResp struct {
	Proc    bool   `json:"proc"`
	Version string `json:"version,omitempty"`
	Err     string `json:"err,omitempty"`
}

type rollNResp struct {
	Procs []bool `json:"procs"`
	Err   string `json:"err,omitempty"`
}

var (
	loader *profile.Loader

	lock   sync.Mutex
	events map[string]*prd.Event // key: percentage string or "game/ability"
)

func parseFloat(r *http.Request, key string) (float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseUint(r *http.Request, key string) (uint64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// eventFor returns the cached event for key, constructing one on first use.
// Callers must hold lock.
func eventFor(key string, p float64, seed uint64) (*prd.Event, error) {
	if ev, ok := events[key]; ok && ev.Percentage() == p {
		return ev, nil
	}
	var rng prd.RandomSource
	if seed != 0 {
		rng = prd.NewSeededRNG(seed)
	}
	ev, err := prd.NewEvent(p, rng)
	if err != nil {
		return nil, err
	}
	events[key] = ev
	return ev, nil
}

// stateless constant lookup
func handleSolve(w http.ResponseWriter, r *http.Request) {
	p, ok, msg := parseFloat(r, "p")
	if !ok {
		http.Error(w, "missing param p", http.StatusBadRequest)
		return
	}
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	c, err := prd.Solve(p)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, solveResp{Percentage: p, Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, solveResp{Percentage: p, Coefficient: c})
}

// stateful single roll, one event stream per distinct percentage
func handleRoll(w http.ResponseWriter, r *http.Request) {
	p, ok, msg := parseFloat(r, "p")
	if !ok {
		http.Error(w, "missing param p", http.StatusBadRequest)
		return
	}
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	lock.Lock()
	defer lock.Unlock()
	ev, err := eventFor(strconv.FormatFloat(p, 'g', -1, 64), p, 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rollResp{Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rollResp{Proc: ev.Run()})
}

// stateful batch roll
func handleRollN(w http.ResponseWriter, r *http.Request) {
	p, ok, msg := parseFloat(r, "p")
	if !ok {
		http.Error(w, "missing param p", http.StatusBadRequest)
		return
	}
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	n, ok, msg := parseInt(r, "n")
	if !ok || msg != "" || n <= 0 || n > 1000 {
		http.Error(w, "missing/invalid param n (1..1000)", http.StatusBadRequest)
		return
	}

	lock.Lock()
	defer lock.Unlock()
	ev, err := eventFor(strconv.FormatFloat(p, 'g', -1, 64), p, 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rollNResp{Err: err.Error()})
		return
	}
	procs := make([]bool, n)
	for i := 0; i < n; i++ {
		procs[i] = ev.Run()
	}
	writeJSON(w, http.StatusOK, rollNResp{Procs: procs})
}

// stateful roll against a YAML profile
func handleProfileRoll(w http.ResponseWriter, r *http.Request) {
	game := r.URL.Query().Get("game")
	ability := r.URL.Query().Get("ability")
	if game == "" {
		http.Error(w, "missing param game", http.StatusBadRequest)
		return
	}

	var o profile.Overrides
	if p, ok, msg := parseFloat(r, "p"); ok && msg == "" {
		o.Percentage = &p
	}

	_, params, err := loader.Resolve(game, ability, o)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rollResp{Err: err.Error()})
		return
	}

	lock.Lock()
	defer lock.Unlock()
	ev, err := eventFor(game+"/"+ability, params.Percentage, params.Seed)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rollResp{Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rollResp{Proc: ev.Run(), Version: params.Version})
}

// one-shot Monte Carlo run
func handleSimulate(w http.ResponseWriter, r *http.Request) {
	p, ok, msg := parseFloat(r, "p")
	if !ok {
		http.Error(w, "missing param p", http.StatusBadRequest)
		return
	}
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	trials, ok, msg := parseInt(r, "trials")
	if !ok || msg != "" {
		trials = 100000
	}
	if trials <= 0 || trials > 10_000_000 {
		http.Error(w, "invalid param trials (1..10000000)", http.StatusBadRequest)
		return
	}
	seed, _, _ := parseUint(r, "seed")

	stats, err := prd.RunMonteCarlo(prd.SimParams{Percentage: p, Trials: trials, Seed: seed})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, solveResp{Percentage: p, Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal(err)
	}

	loader = profile.NewLoader(cfg.ConfigDir)
	events = make(map[string]*prd.Event)

	watcher := profile.NewDirWatcher(cfg.ConfigDir, cfg.WatchInterval, func(path string) {
		log.WithField("path", path).Info("profile config changed; reloading")
		loader.Invalidate()
		lock.Lock()
		events = make(map[string]*prd.Event)
		lock.Unlock()
	})
	watcher.Start()
	defer watcher.Stop()

	http.HandleFunc("/solve", handleSolve)
	http.HandleFunc("/roll", handleRoll)
	http.HandleFunc("/roll_n", handleRollN)
	http.HandleFunc("/profile/roll", handleProfileRoll)
	http.HandleFunc("/simulate", handleSimulate)

	log.WithField("addr", cfg.Addr).Info("listening")
	log.Fatal(http.ListenAndServe(cfg.Addr, nil))
}
