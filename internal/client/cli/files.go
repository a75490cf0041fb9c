package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/filex"
	"github.com/dmitrijs2005/filekeeper/internal/models"
	"github.com/dmitrijs2005/filekeeper/internal/netx"
	"github.com/dmitrijs2005/filekeeper/internal/search"
)

func (a *App) report(err error) error {
	printlnFn("Error:", err.Error())
	return err
}

// Upload asks for a local path, a display name and a description, then
// uploads the file.
func (a *App) Upload(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "Path to local file", a.out)
	if err != nil {
		return err
	}
	if path == "" {
		return a.report(fmt.Errorf("%w: file is required", common.ErrValidation))
	}

	f, err := os.Open(path)
	if err != nil {
		return a.report(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return a.report(err)
	}
	if info.IsDir() {
		return a.report(fmt.Errorf("%w: %s is a directory", common.ErrValidation, path))
	}

	base := filepath.Base(path)
	name, err := GetSimpleText(a.reader, fmt.Sprintf("Display name (empty for %s)", base), a.out)
	if err != nil {
		return err
	}
	if name == "" {
		name = base
	}

	description, err := GetSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	rec, err := a.actions.Upload(ctx, models.UploadRequest{
		Content:     f,
		Size:        info.Size(),
		FileName:    name,
		Description: description,
	})
	if err != nil {
		return a.report(err)
	}

	printlnFn(fmt.Sprintf("Uploaded %s as %s", rec.Name, rec.FullPath))
	return nil
}

// List reloads the file list from the server and prints it.
func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	files, err := a.actions.FetchAll(ctx)
	if err != nil {
		return a.report(err)
	}

	printFiles(a.out, files)
	return nil
}

// Search filters the loaded list without contacting the server.
func (a *App) Search(ctx context.Context) error {
	term, err := GetSimpleText(a.reader, "Search term (empty shows all)", a.out)
	if err != nil {
		return err
	}
	mode, err := GetSimpleText(a.reader, fmt.Sprintf("Search in %v (empty for all)", search.Modes), a.out)
	if err != nil {
		return err
	}

	printFiles(a.out, a.actions.Search(term, search.ParseMode(mode)))
	return nil
}

func (a *App) Show(ctx context.Context) error {
	rec, err := a.pickFile(ctx, "Enter file id, name or path to show")
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	full, err := a.client.Get(ctx, rec.ID)
	if err != nil {
		// files uploaded outside FileKeeper have no record; show what the
		// list knows
		full = rec
	}

	printFile(a.out, *full)
	return nil
}

func (a *App) Edit(ctx context.Context) error {
	rec, err := a.pickFile(ctx, "Enter file id, name or path to edit")
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Current description: %q\n", rec.Description)
	description, err := GetMultiline(a.reader, "New description", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if _, err := a.actions.UpdateDescription(ctx, rec.FullPath, description); err != nil {
		return a.report(err)
	}

	printlnFn("Description updated")
	return nil
}

func (a *App) Download(ctx context.Context) error {
	rec, err := a.pickFile(ctx, "Enter file id, name or path to download")
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	url, err := a.client.DownloadURL(ctx, rec.FullPath)
	if err != nil {
		return a.report(err)
	}

	dir, err := filex.EnsureDir(a.config.DownloadDir)
	if err != nil {
		return a.report(err)
	}
	target := filex.UniquePath(dir, rec.Name)

	f, err := os.Create(target)
	if err != nil {
		return a.report(err)
	}

	n, err := netx.DownloadFile(ctx, url, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(target)
		return a.report(err)
	}

	printlnFn(fmt.Sprintf("Saved %s (%d bytes)", target, n))
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	rec, err := a.pickFile(ctx, "Enter file id, name or path to delete")
	if err != nil {
		return err
	}

	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Delete %s?", rec.Name), a.out)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Cancelled")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if _, err := a.actions.Delete(ctx, rec.FullPath); err != nil {
		return a.report(err)
	}

	printlnFn("Deleted", rec.FullPath)
	return nil
}

// pickFile prompts for a reference and resolves it against the loaded
// list, loading it first when empty.
func (a *App) pickFile(ctx context.Context, prompt string) (*models.FileRecord, error) {
	ref, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		return nil, a.report(fmt.Errorf("%w: a file reference is required", common.ErrValidation))
	}

	files := a.actions.State().Files()
	if len(files) == 0 {
		fetchCtx, cancel := a.withTimeout(ctx)
		files, err = a.actions.FetchAll(fetchCtx)
		cancel()
		if err != nil {
			return nil, a.report(err)
		}
	}

	rec, err := resolve(files, ref)
	if err != nil {
		return nil, a.report(err)
	}
	return rec, nil
}

// resolve finds a file by full path, id or display name. A name shared by
// several files is ambiguous.
func resolve(files []models.FileRecord, ref string) (*models.FileRecord, error) {
	var byName []models.FileRecord
	for i := range files {
		f := files[i]
		if f.FullPath == ref || f.ID == ref {
			return &f, nil
		}
		if strings.EqualFold(f.Name, ref) {
			byName = append(byName, f)
		}
	}

	switch len(byName) {
	case 0:
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, ref)
	case 1:
		return &byName[0], nil
	default:
		return nil, fmt.Errorf("%w: %d files are named %q, use the id", common.ErrValidation, len(byName), ref)
	}
}
