package client

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/adamwoolhether/freesound/client/async"
	"github.com/adamwoolhether/freesound/client/download"
	"github.com/adamwoolhether/freesound/client/model"
	"github.com/adamwoolhether/freesound/client/request"
)

// DownloadOption is a functional option for the download methods.
type DownloadOption = download.Option

// DownloadPreview streams one of the sound's previews into destPath and
// resolves with destPath. The sound must have been fetched with its
// previews field.
func (c *Client) DownloadPreview(ctx context.Context, s model.Sound, p model.Preview, destPath string, opts ...DownloadOption) *async.Handle[string] {
	target := s.PreviewURL(p)
	if target == "" {
		return async.Failed[string](fmt.Errorf("%w: %s for %s", ErrNoPreview, p, s))
	}
	return c.download(ctx, "PreviewDownload", target, destPath, opts)
}

// DownloadSound streams the original file of the sound with id into destPath.
// The API only serves originals to clients built with [WithAccessToken].
func (c *Client) DownloadSound(ctx context.Context, id int, destPath string, opts ...DownloadOption) *async.Handle[string] {
	d := request.Download(id).Build()
	return c.download(ctx, d.Variant(), c.resolve(d), destPath, opts)
}

func (c *Client) download(ctx context.Context, variant, target, destPath string, opts []DownloadOption) *async.Handle[string] {
	if destPath == "" {
		return async.Failed[string](download.ErrEmptyDestination)
	}

	return async.Submit(c.executor, ctx, func(ctx context.Context) (string, error) {
		if download.SkipsExisting(opts...) {
			if _, err := os.Stat(destPath); err == nil {
				c.logger.Info("skipping existing file", "path", destPath)
				return destPath, nil
			}
		}

		err := c.observe(ctx, variant, http.MethodGet, target, func(ctx context.Context) error {
			headers := map[string]string{"Accept": "*/*"}
			return c.exec(ctx, http.MethodGet, target, headers, func(resp *Response) error {
				if err := download.ToFile(ctx, resp.Body, resp.ContentLength, destPath, c.logger, opts...); err != nil {
					return fmt.Errorf("download: %w", err)
				}
				return nil
			})
		})
		if err != nil {
			return "", err
		}

		return destPath, nil
	})
}
