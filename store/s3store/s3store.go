// Copyright (C) 2024 The chunkcache Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package s3store implements a chunkcache.Store backed by an S3 bucket,
// addressing each chunk by its path under a bucket prefix and signing
// requests with SigV4.
package s3store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nczarr/chunkcache/aws"
	"github.com/nczarr/chunkcache/chunkcache"
)

// Store reads and writes chunks as objects in an S3 bucket.
type Store struct {
	Key    *aws.SigningKey
	Bucket string
	Prefix string
	Client *http.Client
}

// New returns a Store that signs requests with key and addresses objects
// under bucket/prefix. A nil client defaults to http.DefaultClient.
func New(key *aws.SigningKey, bucket, prefix string, client *http.Client) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{Key: key, Bucket: bucket, Prefix: prefix, Client: client}
}

// NewFromEnvironment builds a Store for bucket/prefix from whatever AWS
// credentials are ambient in the process environment or the user's
// ~/.aws files (see aws.AmbientCreds), deriving the SigningKey's base URI
// from aws.S3EndPoint for the discovered region.
func NewFromEnvironment(bucket, prefix string) (*Store, error) {
	id, secret, region, token, err := aws.AmbientCreds()
	if err != nil {
		return nil, fmt.Errorf("s3store.NewFromEnvironment: %w", err)
	}
	key := aws.DeriveKey(aws.S3EndPoint(region), id, secret, region, "s3")
	key.Token = token
	return New(key, bucket, prefix, nil), nil
}

func (s *Store) uri(path string) string {
	base := s.Key.BaseURI
	if base == "" {
		base = "https://" + s.Bucket + ".s3.amazonaws.com"
	} else {
		base += "/" + s.Bucket
	}
	p := strings.TrimSuffix(s.Prefix, "/")
	if p != "" {
		p += "/"
	}
	return base + "/" + p + path
}

// Read implements chunkcache.Store with a ranged GET.
func (s *Store) Read(ctx context.Context, path string, off, n int64, buf []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.uri(path), nil)
	if err != nil {
		return fmt.Errorf("s3store: %s: %w", path, err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", off, off+n-1))
	s.Key.SignV4(req, nil)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("s3store: %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
	case http.StatusNotFound:
		return fmt.Errorf("s3store: %s: %w", path, chunkcache.ErrNotFound)
	default:
		return fmt.Errorf("s3store: %s: unexpected status %s", path, resp.Status)
	}
	if _, err := io.ReadFull(resp.Body, buf[:n]); err != nil {
		return fmt.Errorf("s3store: %s: short read: %w", path, err)
	}
	return nil
}

// Write implements chunkcache.Store with a PUT of the full object.
//
// S3 has no partial-object update, so Write accepts only off == 0 and
// returns an error wrapping chunkcache.ErrInvalidArgument for any other
// offset. A Cache always writes whole chunks at offset 0.
func (s *Store) Write(ctx context.Context, path string, off, n int64, buf []byte) error {
	if off != 0 {
		return fmt.Errorf("s3store: %s: %w: non-zero offset write requires a full-object buffer", path, chunkcache.ErrInvalidArgument)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.uri(path), nil)
	if err != nil {
		return fmt.Errorf("s3store: %s: %w", path, err)
	}
	body := buf[:n]
	s.Key.SignV4(req, body)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("s3store: %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("s3store: %s: unexpected status %s", path, resp.Status)
	}
	return nil
}
