package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/filekeeper/internal/models"
)

const maxDescriptionWidth = 40

func printFiles(w io.Writer, files []models.FileRecord) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUPLOADED\tDESCRIPTION")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Name, f.UploadedAt, truncate(f.Description, maxDescriptionWidth))
	}
	_ = tw.Flush()
}

func printFile(w io.Writer, f models.FileRecord) {
	kind := "file"
	if f.IsImage() {
		kind = "image"
	}

	fmt.Fprintf(w, "Name:        %s (%s)\n", f.Name, kind)
	fmt.Fprintf(w, "ID:          %s\n", f.ID)
	fmt.Fprintf(w, "Path:        %s\n", f.FullPath)
	fmt.Fprintf(w, "Uploaded:    %s\n", f.UploadedAt)
	if f.UpdatedAt != "" {
		fmt.Fprintf(w, "Updated:     %s\n", f.UpdatedAt)
	}
	fmt.Fprintf(w, "Description: %s\n", f.Description)
	fmt.Fprintf(w, "URL:         %s\n", f.URL)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
