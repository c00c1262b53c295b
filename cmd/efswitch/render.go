package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"efswitch/internal/database"
	"efswitch/internal/switcher"

	"github.com/fatih/color"
)

var (
	activeMark  = color.New(color.FgGreen, color.Bold)
	warningMark = color.New(color.FgYellow)
)

// shortID abbreviates an account ID for display. Any prefix of six or more
// characters is accepted back as a selector.
func shortID(id string) string {
	if len(id) > 10 {
		return id[:10]
	}
	return id
}

func accountName(name string) string {
	return fmt.Sprintf("%q", name)
}

// writeAccounts prints one line per account, marking the one whose
// fingerprint matches current.
func writeAccounts(w io.Writer, accounts []switcher.AccountRecord, current string) {
	if len(accounts) == 0 {
		fmt.Fprintln(w, "No saved accounts.")
		return
	}
	active := switcher.MatchFingerprint(accounts, current)
	for _, a := range accounts {
		mark := "  "
		line := fmt.Sprintf("%-10s  %-19s  %s", shortID(a.ID), a.LastBackupTime, a.DisplayName)
		if active != nil && a.ID == active.ID {
			mark = activeMark.Sprint("* ")
			line = activeMark.Sprint(line)
		}
		fmt.Fprintf(w, "%s%s\n", mark, line)
	}
}

func writeAccountsJSON(w io.Writer, accounts []switcher.AccountRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(accounts)
}

func writeCurrent(w io.Writer, rec *switcher.AccountRecord, fp string) {
	switch {
	case fp == "":
		fmt.Fprintln(w, "No session in the game.")
	case rec == nil:
		fmt.Fprintln(w, warningMark.Sprint("The session in the game is not saved. Capture it to keep it."))
	default:
		fmt.Fprintf(w, "%s %s (%s)\n", activeMark.Sprint("*"), accountName(rec.DisplayName), shortID(rec.ID))
	}
}

func writeReport(w io.Writer, r *switcher.CheckReport) {
	if r.OK() {
		fmt.Fprintln(w, "Index and backups agree.")
		return
	}
	for _, rec := range r.Stale {
		fmt.Fprintf(w, "%s %s %s: backup folder %s is missing\n", warningMark.Sprint("stale"), shortID(rec.ID), accountName(rec.DisplayName), rec.StorageKey)
	}
	for _, rec := range r.Mismatched {
		fmt.Fprintf(w, "%s %s %s: backup no longer matches its fingerprint\n", warningMark.Sprint("changed"), shortID(rec.ID), accountName(rec.DisplayName))
	}
	for _, key := range r.Orphans {
		fmt.Fprintf(w, "%s %s: no account refers to this folder\n", warningMark.Sprint("orphan"), key)
	}
}

func writeHistory(w io.Writer, ops []*database.Operation) {
	if len(ops) == 0 {
		fmt.Fprintln(w, "No operations recorded.")
		return
	}
	for _, op := range ops {
		duration := ""
		if op.FinishedAt.Valid {
			d := op.FinishedAt.Time.Sub(op.StartedAt)
			duration = d.Truncate(time.Millisecond).String()
		}
		fmt.Fprintf(w, "#%d  %-15s  %s  %-8s  %-8s  %s\n",
			op.ID,
			op.Operation,
			op.StartedAt.Local().Format("2006-01-02 15:04:05"),
			op.Status,
			duration,
			op.Parameters,
		)
	}
}
