package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/models"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/records"
	"github.com/dkhrutsky/mdskeeper/internal/services"
	"github.com/dkhrutsky/mdskeeper/internal/session"
)

// dateLayout is the day-granularity format accepted by the filter prompts.
const dateLayout = "2006-01-02"

// UserHome shows the record count and routes to the other user pages.
func (a *App) UserHome(ctx context.Context) error {
	recs, err := a.records.List(ctx, a.sess)
	if err != nil {
		return err
	}
	if a.router.ConsumeRefreshNotice(a.sess) {
		printlnFn("View refreshed")
	}
	printlnFn(fmt.Sprintf("Home %s: %d records", a.status(), len(recs)))

	cmd, err := getSimpleText(a.reader, "Commands: add, view, filter, settings, logout, exit", a.out)
	if err != nil {
		return err
	}

	switch cmd {
	case "", "help":
		return nil
	case "add":
		return a.router.Navigate(ctx, a.sess, session.PageDataEntry)
	case "view":
		return a.router.Navigate(ctx, a.sess, session.PageViewEdit)
	case "filter":
		return a.router.Navigate(ctx, a.sess, session.PageFilterExport)
	case "settings":
		return a.router.Navigate(ctx, a.sess, session.PageUserSettings)
	case "logout":
		return a.router.Navigate(ctx, a.sess, session.PageLoggedOut)
	case "exit", "quit":
		return errQuit
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

// DataEntry collects one new record and returns to the home page.
func (a *App) DataEntry(ctx context.Context) error {
	if err := a.promptNewRecord(ctx); err != nil {
		return err
	}
	return a.router.Navigate(ctx, a.sess, session.PageUserHome)
}

func (a *App) promptNewRecord(ctx context.Context) error {
	printlnFn("Categories:", strings.Join(models.Categories, ", "))

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	if title == "" {
		printlnFn("Title is required")
		return nil
	}

	category, err := getSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}
	if category == "" {
		category = models.Categories[len(models.Categories)-1]
	}

	notes, err := getMultiline(a.reader, "Notes", a.out)
	if err != nil {
		return err
	}

	rec, err := a.records.Add(ctx, a.sess, title, category, notes)
	if err != nil {
		return err
	}
	printlnFn("Saved record", rec.ID)
	a.router.AfterMutation(ctx, a.sess)
	return nil
}

// ViewEdit lists the actor's records and applies edit and delete commands.
func (a *App) ViewEdit(ctx context.Context) error {
	recs, err := a.records.List(ctx, a.sess)
	if err != nil {
		return err
	}
	if a.router.ConsumeRefreshNotice(a.sess) {
		printlnFn("View refreshed")
	}
	a.printTable(recs)

	line, err := getSimpleText(a.reader, "Commands: edit <id>, del <id>, back, exit", a.out)
	if err != nil {
		return err
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "help":
		return nil
	case "back":
		return a.router.Navigate(ctx, a.sess, session.PageUserHome)
	case "exit", "quit":
		return errQuit
	case "edit", "del":
		if len(parts) < 2 {
			printlnFn("Usage:", parts[0], "<id>")
			return nil
		}
		id, convErr := strconv.Atoi(parts[1])
		if convErr != nil {
			printlnFn("Bad id:", parts[1])
			return nil
		}
		if parts[0] == "del" {
			return a.deleteRecord(ctx, id)
		}
		return a.editRecord(ctx, recs, id)
	default:
		printlnFn("Unknown command:", parts[0])
		return nil
	}
}

func (a *App) deleteRecord(ctx context.Context, id int) error {
	err := a.records.Delete(ctx, a.sess, id)
	if errors.Is(err, common.ErrorNotFound) {
		printlnFn("No record with id", id)
		return nil
	}
	if err != nil {
		return err
	}
	printlnFn("Deleted record", id)
	a.router.AfterMutation(ctx, a.sess)
	return nil
}

func (a *App) editRecord(ctx context.Context, recs []models.Record, id int) error {
	var cur *models.Record
	for i := range recs {
		if recs[i].ID == id {
			cur = &recs[i]
			break
		}
	}
	if cur == nil {
		printlnFn("No record with id", id)
		return nil
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title (empty keeps %q)", cur.Title), a.out)
	if err != nil {
		return err
	}
	if title == "" {
		title = cur.Title
	}

	category, err := getSimpleText(a.reader, fmt.Sprintf("Category (empty keeps %q)", cur.Category), a.out)
	if err != nil {
		return err
	}
	if category == "" {
		category = cur.Category
	}

	notes, err := getMultiline(a.reader, "Notes (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if notes == "" {
		notes = cur.Notes
	}

	err = a.records.UpdateFields(ctx, a.sess, id, title, category, notes)
	if errors.Is(err, common.ErrorNotFound) {
		printlnFn("No record with id", id)
		return nil
	}
	if err != nil {
		return err
	}
	printlnFn("Updated record", id)
	a.router.AfterMutation(ctx, a.sess)
	return nil
}

// FilterExport collects filter criteria, previews the matching rows, and
// writes the chosen encoding to a timestamped file.
func (a *App) FilterExport(ctx context.Context) error {
	f, err := a.promptFilter()
	if err != nil {
		return err
	}

	for {
		rows, count, err := a.exports.Preview(ctx, a.sess, f)
		if err != nil {
			return err
		}
		a.printTable(rows)
		printlnFn(count, "records match")

		cmd, err := getSimpleText(a.reader, "Commands: csv, xlsx, json, filter, back, exit", a.out)
		if err != nil {
			return err
		}

		switch cmd {
		case "", "help":
		case "filter":
			if f, err = a.promptFilter(); err != nil {
				return err
			}
		case "csv", "xlsx", "json":
			if err := a.export(ctx, f, cmd); err != nil {
				return err
			}
		case "back":
			return a.router.Navigate(ctx, a.sess, session.PageUserHome)
		case "exit", "quit":
			return errQuit
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) promptFilter() (records.Filter, error) {
	var f records.Filter

	category, err := getSimpleText(a.reader, "Category (empty for all)", a.out)
	if err != nil {
		return f, err
	}
	f.Category = category

	keyword, err := getSimpleText(a.reader, "Keyword (empty to skip)", a.out)
	if err != nil {
		return f, err
	}
	f.Keyword = keyword

	from, err := getSimpleText(a.reader, "From date, YYYY-MM-DD (empty to skip)", a.out)
	if err != nil {
		return f, err
	}
	to, err := getSimpleText(a.reader, "To date, YYYY-MM-DD (empty to skip)", a.out)
	if err != nil {
		return f, err
	}

	// The range applies only when both bounds parse; the upper bound is
	// extended to the end of its day.
	fromTime, fromErr := time.ParseInLocation(dateLayout, from, time.Local)
	toTime, toErr := time.ParseInLocation(dateLayout, to, time.Local)
	if fromErr == nil && toErr == nil {
		f.From = fromTime
		f.To = toTime.Add(24*time.Hour - time.Second)
	}
	return f, nil
}

func (a *App) export(ctx context.Context, f records.Filter, format string) error {
	bundle, err := a.exports.Export(ctx, a.sess, f)
	if errors.Is(err, common.ErrorNothingToExport) {
		printlnFn("Nothing to export")
		return nil
	}
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "csv":
		data = bundle.CSV
	case "xlsx":
		data = bundle.Excel
	case "json":
		data = bundle.JSON
	}

	name := services.FileName("records", time.Now(), format)
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return err
	}
	printlnFn("Saved", bundle.Count, "records to", name)
	return nil
}

// UserSettings changes the user's password or issues a resume token.
func (a *App) UserSettings(ctx context.Context) error {
	cmd, err := getSimpleText(a.reader, "Commands: password, token, back, exit", a.out)
	if err != nil {
		return err
	}

	switch cmd {
	case "", "help":
		return nil
	case "password":
		return a.changePassword(ctx)
	case "token":
		token, err := a.users.IssueResumeToken(a.sess)
		if err != nil {
			return err
		}
		printlnFn("Resume token:", token)
		return nil
	case "back":
		return a.router.Navigate(ctx, a.sess, session.PageUserHome)
	case "exit", "quit":
		return errQuit
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

func (a *App) changePassword(ctx context.Context) error {
	printlnFn("Current password")
	oldPassword, err := getPassword(a.out)
	if err != nil {
		return err
	}
	printlnFn("New password")
	newPassword, err := getPassword(a.out)
	if err != nil {
		return err
	}
	printlnFn("Repeat new password")
	repeat, err := getPassword(a.out)
	if err != nil {
		return err
	}
	if string(newPassword) != string(repeat) {
		printlnFn("Passwords do not match")
		return nil
	}

	err = a.users.ChangePassword(ctx, a.sess, string(oldPassword), string(newPassword))
	switch {
	case errors.Is(err, common.ErrorInvalidOldPassword):
		printlnFn("Current password is wrong")
		return nil
	case errors.Is(err, common.ErrorEmptyPassword):
		printlnFn("New password must not be empty")
		return nil
	case err != nil:
		return err
	}

	printlnFn("Password changed")
	a.router.AfterMutation(ctx, a.sess)
	return nil
}

func (a *App) printTable(recs []models.Record) {
	if len(recs) == 0 {
		printlnFn("No records")
		return
	}

	extras := records.ExtraColumns(recs)
	header := append([]string{"id", "category", "created_at", "title", "notes"}, extras...)
	printlnFn(strings.Join(header, " | "))

	for _, rec := range recs {
		createdAt := ""
		if !rec.CreatedAt.IsZero() {
			createdAt = rec.CreatedAt.Format(models.TimeLayout)
		}
		row := []string{strconv.Itoa(rec.ID), rec.Category, createdAt, rec.Title, rec.Notes}
		for _, col := range extras {
			row = append(row, rec.Extra[col])
		}
		printlnFn(strings.Join(row, " | "))
	}
}
