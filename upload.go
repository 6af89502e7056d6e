package main

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/mutschler/fbv/render"
)

const uploadTimeout = 30 * time.Second

// builds the multipart body: the snapshot as "image" plus the placement the
// renderer chose for it
func snapshotForm(filename string, g render.Geometry, p render.Plan) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := [][2]string{
		{"surface", fmt.Sprintf("%dx%dx%d", g.Width, g.Height, g.BitDepth)},
		{"rotation", fmt.Sprint(p.Rotation.Degrees())},
		{"scale", fmt.Sprintf("%g", p.Scale)},
		{"bitmap", fmt.Sprintf("%dx%d", p.FinalWidth, p.FinalHeight)},
		{"offset", fmt.Sprintf("%d,%d", p.TargetOffsetX, p.TargetOffsetY)},
		{"pan", fmt.Sprintf("%d,%d", p.EffectivePanX, p.EffectivePanY)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	fh, err := os.Open(filename)
	if err != nil {
		return nil, "", err
	}
	defer fh.Close()
	fw, err := w.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(fw, fh); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// posts the snapshot and its render placement to upload_url
func uploadSnapshot(filename string, g render.Geometry, p render.Plan) error {
	if !viper.GetBool("upload") || viper.GetString("upload_url") == "http://example.com/upload" {
		return nil
	}
	target := viper.GetString("upload_url")

	body, contentType, err := snapshotForm(filename, g, p)
	if err != nil {
		return fmt.Errorf("prepare upload of %s: %w", filename, err)
	}
	log.WithField("url", target).Infof("uploading %s (%s)", filename, humanize.Bytes(uint64(body.Len())))

	client := &http.Client{Timeout: uploadTimeout}
	resp, err := client.Post(target, contentType, body)
	if err != nil {
		return fmt.Errorf("upload to %s: %w", target, err)
	}
	defer resp.Body.Close()
	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("upload to %s: read response: %w", target, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("upload to %s: %s", target, resp.Status)
	}
	log.Debugf("server response:\n%s", reply)
	return nil
}
