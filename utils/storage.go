package utils

import (
	"bytes"
	"fmt"

	storage "github.com/supabase-community/storage-go"
)

// UploadExport pushes a generated export file into the Supabase
// storage bucket and returns its public URL.
func UploadExport(supabaseURL, supabaseKey, bucket, objectPath string, data []byte, contentType string) (string, error) {
	client := storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)

	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}
	if _, err := client.UploadFile(bucket, objectPath, bytes.NewReader(data), options); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}

	public := client.GetPublicUrl(bucket, objectPath)
	return public.SignedURL, nil
}
