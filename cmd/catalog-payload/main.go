package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/internal/media"
)

type slotValue struct {
	slot  string
	value string
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("catalog payload: %v", err)
	}
}

// run decodes a draft document, applies media flags through a form session
// and writes the encoded submission body.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("catalog-payload", flag.ContinueOnError)
	fs.SetOutput(stderr)
	kind := fs.String("kind", "", "Entity kind (category, subcategory, set, exercise, blog, article, course, instructor)")
	draftPath := fs.String("draft", "-", "Path to the draft JSON document, - for stdin")
	originalPath := fs.String("original", "", "Path to the stored entity JSON; switches to update mode. Draft media URLs apply only where they differ from it; use -remove to clear a slot")
	outPath := fs.String("out", "", "Write the body to this path instead of stdout")
	schema := fs.Bool("schema", false, "Validate JSON bodies against the generated schema")
	logLevel := fs.String("log-level", "", "Enable go-logger output at this level")

	var files, urls []slotValue
	var removals []string
	fs.Func("file", "Attach a local file as slot=path (repeatable)", collect(&files))
	fs.Func("url", "Set a remote URL as slot=url (repeatable)", collect(&urls))
	fs.Func("remove", "Remove the media held by a slot (repeatable)", func(raw string) error {
		removals = append(removals, strings.TrimSpace(raw))
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*kind) == "" {
		return errors.New("kind is required")
	}

	cfg := catalog.DefaultConfig()
	cfg.Submission.ValidateSchema = *schema
	if level := strings.TrimSpace(*logLevel); level != "" {
		cfg.Features.Logger = true
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Level = level
	}
	module, err := catalog.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	rawDraft, err := readSource(*draftPath, stdin)
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}
	draft, err := catalog.DecodeEntity(catalog.Kind(*kind), rawDraft)
	if err != nil {
		return fmt.Errorf("decode draft: %w", err)
	}

	form, err := openForm(module, draft, *originalPath, stdin)
	if err != nil {
		return err
	}
	defer module.CloseForm(form.ID())

	form.Update(func(e *catalog.Entity) {
		id := e.ID
		*e = draft.Clone()
		e.ID = id
	})
	var original *catalog.Entity
	if *originalPath != "" {
		stored := form.Original()
		original = &stored
	}
	if err := applyDraftMedia(form, draft, original); err != nil {
		return err
	}
	if err := applyMedia(ctx, form, cfg.Media, files, urls, removals); err != nil {
		return err
	}

	if errs, err := form.Validate(); err != nil {
		return err
	} else if len(errs) > 0 {
		for _, fe := range errs {
			fmt.Fprintf(stderr, "%s\t%s\t%s\t%s\n", fe.Class, fe.Field, fe.Code, fe.Message)
		}
		return fmt.Errorf("draft rejected with %d error(s)", len(errs))
	}

	payload, err := form.Payload()
	if err != nil {
		return fmt.Errorf("build payload: %w", err)
	}
	fmt.Fprintf(stderr, "Content-Type: %s\n", payload.ContentType)

	out := stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	_, err = io.Copy(out, payload.Reader())
	return err
}

func collect(dst *[]slotValue) func(string) error {
	return func(raw string) error {
		slot, value, ok := strings.Cut(raw, "=")
		slot = strings.TrimSpace(slot)
		if !ok || slot == "" || strings.TrimSpace(value) == "" {
			return fmt.Errorf("expected slot=value, got %q", raw)
		}
		*dst = append(*dst, slotValue{slot: slot, value: strings.TrimSpace(value)})
		return nil
	}
}

func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func openForm(module *catalog.Module, draft catalog.Entity, originalPath string, stdin io.Reader) (*catalog.Form, error) {
	if originalPath == "" {
		return module.NewForm(draft.Kind)
	}
	raw, err := readSource(originalPath, stdin)
	if err != nil {
		return nil, fmt.Errorf("read original: %w", err)
	}
	original, err := catalog.DecodeEntity(draft.Kind, raw)
	if err != nil {
		return nil, fmt.Errorf("decode original: %w", err)
	}
	return module.EditForm(original)
}

// applyDraftMedia carries URLs from the draft into the form slots. On
// update a slot is only touched when the draft names URLs that differ from
// original; a draft without URLs for a slot leaves it as stored.
func applyDraftMedia(form *catalog.Form, draft catalog.Entity, original *catalog.Entity) error {
	for _, binding := range form.Spec().Bindings {
		urls := draft.MediaURLs(binding.Slot)
		if len(urls) == 0 {
			continue
		}
		if original != nil {
			if slices.Equal(urls, original.MediaURLs(binding.Slot)) {
				continue
			}
			if coll, err := form.Collection(binding.Slot); err == nil {
				coll.Clear()
			}
		}
		for _, url := range urls {
			if err := setURL(form, binding.Slot, url); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyMedia(ctx context.Context, form *catalog.Form, limits catalog.MediaConfig, files, urls []slotValue, removals []string) error {
	for _, slot := range removals {
		if coll, err := form.Collection(slot); err == nil {
			coll.Clear()
			continue
		}
		att, err := form.Attachment(slot)
		if err != nil {
			return err
		}
		att.Remove()
	}
	for _, entry := range urls {
		if err := setURL(form, entry.slot, entry.value); err != nil {
			return err
		}
	}
	for _, entry := range files {
		file, err := loadFile(ctx, entry.value, limits)
		if err != nil {
			return err
		}
		if coll, err := form.Collection(entry.slot); err == nil {
			if err := coll.SelectFiles(file); err != nil {
				return err
			}
			continue
		}
		att, err := form.Attachment(entry.slot)
		if err != nil {
			return err
		}
		if err := att.SelectFile(file); err != nil {
			return err
		}
	}
	return nil
}

func setURL(form *catalog.Form, slot, url string) error {
	if coll, err := form.Collection(slot); err == nil {
		return coll.AddURL(url)
	}
	att, err := form.Attachment(slot)
	if err != nil {
		return err
	}
	att.EnterURL(url)
	return att.CommitURL()
}

func loadFile(ctx context.Context, path string, limits catalog.MediaConfig) (media.File, error) {
	handle, err := os.Open(path)
	if err != nil {
		return media.File{}, err
	}
	defer handle.Close()
	limit := limits.MaxVideoBytes
	if limits.MaxImageBytes > limit {
		limit = limits.MaxImageBytes
	}
	return media.ReadFile(ctx, path, "", handle, limit)
}
