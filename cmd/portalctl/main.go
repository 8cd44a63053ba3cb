// Command portalctl edits membership records from the terminal. It fetches
// the portal layout metadata, walks the fields as interactive prompts and
// submits the changed values back to the CRM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-memberportal/pkg/crm"
	"github.com/goliatone/go-memberportal/pkg/form"
	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/renderers/tui"
	"github.com/goliatone/go-memberportal/pkg/rowset"
	"github.com/goliatone/go-memberportal/pkg/session"
)

func main() {
	object := flag.String("object", "Contact", "CRM object to edit")
	recordID := flag.String("record", "", "record id to edit")
	storePath := flag.String("store", defaultStorePath(), "credential store path")
	flag.Parse()

	if *recordID == "" {
		log.Fatalf("missing -record")
	}

	ctx := context.Background()
	store := session.NewFileStore(*storePath)
	driver := tui.NewEditor()

	if err := ensureSession(ctx, store); err != nil {
		log.Fatalf("sign in: %v", err)
	}

	client, err := crm.New(store, crm.WithExpiryHook(func() {
		// A dead token is useless on the next run too.
		_ = store.Clear()
		fmt.Fprintln(os.Stderr, "session expired, sign in again")
	}))
	if err != nil {
		log.Fatalf("create client: %v", err)
	}

	if err := editRecord(ctx, client, driver, *object, *recordID); err != nil {
		var validationErr *form.ValidationError
		if errors.As(err, &validationErr) {
			log.Fatalf("validation failed: %v", validationErr)
		}
		log.Fatalf("edit record: %v", err)
	}
	fmt.Println("Record updated.")
}

func editRecord(ctx context.Context, client *crm.Client, editor *tui.Editor, object, recordID string) error {
	raw, err := client.Describe(ctx, object)
	if err != nil {
		return err
	}

	mapper := metadata.NewMapper()
	section, issues, err := mapper.MapSection(raw)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "metadata: %s\n", issue)
	}

	baseline, err := fetchBaseline(ctx, client, section, object, recordID)
	if err != nil {
		return err
	}

	formSession := form.NewSession(sectionFields(section), baseline)
	if err := editor.EditSection(ctx, section, formSession); err != nil {
		return err
	}
	if !formSession.Dirty() {
		fmt.Println("No changes.")
		return nil
	}

	payload, err := formSession.Submit()
	if err != nil {
		return err
	}
	return client.UpdateRecord(ctx, object, recordID, rowset.Flat(payload))
}

// fetchBaseline pulls the current record values for every field the layout
// shows, so prompts start from what the CRM has.
func fetchBaseline(ctx context.Context, client *crm.Client, section metadata.Section, object, recordID string) (rowset.Flat, error) {
	fields := sectionFields(section)
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.APIName)
	}
	if len(names) == 0 {
		return rowset.Flat{}, nil
	}

	soql := fmt.Sprintf("SELECT %s FROM %s WHERE Id = '%s'",
		strings.Join(names, ", "), object, strings.ReplaceAll(recordID, "'", ""))
	rows, err := client.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("record %s not found", recordID)
	}
	return rows[0], nil
}

func sectionFields(section metadata.Section) []metadata.FieldDescriptor {
	fields := append([]metadata.FieldDescriptor{}, section.Fields...)
	for _, group := range section.Groups {
		fields = append(fields, group.Fields...)
	}
	return fields
}

func ensureSession(ctx context.Context, store session.Store) error {
	if _, ok, err := store.Load(); err != nil {
		return err
	} else if ok {
		return nil
	}

	driver := tui.NewPromptDriver()
	instanceURL, err := driver.Input(ctx, tui.InputConfig{
		Message: "Instance URL",
		Validator: func(value string) error {
			if !strings.HasPrefix(value, "https://") {
				return fmt.Errorf("enter an https:// URL")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	accessToken, err := driver.Password(ctx, tui.InputConfig{Message: "Access token"})
	if err != nil {
		return err
	}

	return store.Save(session.Credentials{
		AccessToken: accessToken,
		InstanceURL: strings.TrimRight(instanceURL, "/"),
	})
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "memberportal", "credentials.json")
}
