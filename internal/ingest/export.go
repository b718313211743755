package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"fusiondex/internal/catalog"
	"fusiondex/pkg/models"
)

// WriteCredits writes images back in the credit list format ParseCredits
// reads. The unattributed placeholder is written as an empty credit.
func WriteCredits(w io.Writer, images []models.Image) error {
	bw := bufio.NewWriter(w)
	for _, img := range images {
		var names []string
		for _, a := range img.Artists {
			if a != models.UnattributedArtist {
				names = append(names, a)
			}
		}
		if _, err := fmt.Fprintf(bw, "%s,%s,%s,%s\n",
			img.SpriteID,
			strings.Join(names, catalog.ArtistSeparator),
			img.Type,
			img.Comments,
		); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDex writes dex entries as "sprite,entry,author" CSV with a header.
func WriteDex(w io.Writer, entries []models.DexEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sprite", "entry", "author"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.SpriteID, e.Entry, e.Author}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
