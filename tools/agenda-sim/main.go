// agenda-sim is a local stand-in for the remote agenda endpoint: it answers
// availability reads with a deterministic slot set per (staff, date) and
// accepts "agendar" writes. Point AGENDA_URL at it for local development.
//
// Note the production endpoint's write channel is opaque (the widget treats
// an unreadable response as confirmation); this simulator always answers,
// so against it every submission takes the explicit-failure path. Use
// -mute to make it drop the connection on writes and exercise the
// confirmation path instead.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"hash/fnv"
	"net/http"
	"os"
)

var hours = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "19:00"}

func main() {
	var (
		addr = flag.String("addr", getenv("ADDR", ":8090"), "listen address")
		mute = flag.Bool("mute", false, "drop the connection on POST instead of responding")
	)
	flag.Parse()

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			staffID := r.URL.Query().Get("staffId")
			date := r.URL.Query().Get("date")
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"slots":    slotsFor(staffID, date),
				"whatsapp": "573001112233",
			})
		case http.MethodPost:
			var req struct {
				Action string `json:"action"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Action != "agendar" {
				http.Error(w, "unknown action", http.StatusBadRequest)
				return
			}
			if *mute {
				// Hijack and close without a response to mimic the opaque channel.
				if hj, ok := w.(http.Hijacker); ok {
					if conn, _, err := hj.Hijack(); err == nil {
						_ = conn.Close()
						return
					}
				}
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	fmt.Printf("agenda-sim listening on %s (mute=%v)\n", *addr, *mute)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// slotsFor derives a stable pseudo-random subset of the working hours so
// different staff/date pairs show different availability.
func slotsFor(staffID, date string) []string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(staffID + "|" + date))
	mask := h.Sum32()

	out := make([]string, 0, len(hours))
	for i, hour := range hours {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, hour)
		}
	}
	if len(out) == 0 {
		out = append(out, hours[0])
	}
	return out
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
