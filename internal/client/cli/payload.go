package cli

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/docvault-app/docvault/internal/client/models"
	"github.com/docvault-app/docvault/internal/netx"
)

// attach reads a file from disk and binds it to a document as its payload.
// In remote mode the bytes are offloaded to object storage through a
// presigned upload and only the storage key is kept on the document; in
// local mode the payload is embedded in the cache snapshot.
func (a *App) attach(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter document id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if a.findDocument(id) == nil {
		fmt.Println("No such document:", id)
		return
	}

	path, err := GetSimpleText(a.reader, "Enter file path", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading file: %s", err.Error())
		return
	}

	fileName := filepath.Base(path)
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	size := int64(len(payload))

	patch := models.DocumentPatch{
		FileName:    &fileName,
		ContentType: &contentType,
		Size:        &size,
	}

	if a.vault.Mode() == models.ModeRemote {
		grant, err := a.api.PresignPayloadPut(ctx, id)
		if err != nil {
			log.Printf("Error: %s", err.Error())
			return
		}
		if err := netx.UploadToPresignedURL(ctx, grant.URL, payload, contentType); err != nil {
			log.Printf("Upload failed: %s", err.Error())
			return
		}
	} else {
		patch.Payload = &payload
	}

	if err := a.vault.UpdateDocument(ctx, id, patch); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Printf("Attached %s (%d bytes)\n", fileName, size)
}

// export writes a document's payload to a local file, fetching it from
// object storage when it was offloaded.
func (a *App) export(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter document id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	doc := a.findDocument(id)
	if doc == nil {
		fmt.Println("No such document:", id)
		return
	}

	payload := doc.Payload
	if len(payload) == 0 && doc.StorageKey != "" {
		url, err := a.api.PresignPayloadGet(ctx, id)
		if err != nil {
			log.Printf("Error: %s", err.Error())
			return
		}
		payload, err = netx.DownloadFromPresignedURL(ctx, url)
		if err != nil {
			log.Printf("Download failed: %s", err.Error())
			return
		}
	}
	if len(payload) == 0 {
		fmt.Println("Document has no payload.")
		return
	}

	dest, err := GetSimpleText(a.reader, "Enter destination path", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if dest == "" && doc.FileName != "" {
		dest = doc.FileName
	}

	if err := os.WriteFile(dest, payload, 0o600); err != nil {
		log.Printf("Error writing file: %s", err.Error())
		return
	}
	fmt.Printf("Exported %d bytes to %s\n", len(payload), dest)
}
