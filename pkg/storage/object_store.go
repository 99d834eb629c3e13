// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/easysoft/pgbackup/pkg/snapshot"
)

type objectStorage struct {
	client *minio.Client
	bucket string
	region string
}

// NewObjectStorage connects to an S3-compatible endpoint and ensures the
// bucket exists, creating it when missing. The endpoint may carry a scheme;
// http disables TLS, anything else keeps it on.
func NewObjectStorage(ctx context.Context, endpoint, accessKey, secretKey, region, bucket string) (Storage, error) {
	host, useSSL, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exist, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, errors.Wrapf(classify(err), "check bucket %s", bucket)
	}
	if !exist {
		if err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, errors.Wrapf(classify(err), "create bucket %s", bucket)
		}
	}

	return &objectStorage{client: client, bucket: bucket, region: region}, nil
}

// parseEndpoint turns an endpoint into the bare host the minio client
// wants. A scheme is optional; "host" and "host:port" parse as opaque
// URLs otherwise, so a missing scheme is supplied before parsing. Only
// an explicit http scheme turns TLS off.
func parseEndpoint(endpoint string) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	ep, err := url.Parse(endpoint)
	if err != nil {
		return "", false, err
	}
	if ep.Host == "" {
		return "", false, errors.Errorf("no host in endpoint %q", endpoint)
	}
	return ep.Host, ep.Scheme != "http", nil
}

func (o *objectStorage) Put(ctx context.Context, key, localPath string) error {
	_, err := o.client.FPutObject(ctx, o.bucket, key, localPath, minio.PutObjectOptions{})
	return classify(err)
}

func (o *objectStorage) Get(ctx context.Context, key, localPath string) error {
	return classify(o.client.FGetObject(ctx, o.bucket, key, localPath, minio.GetObjectOptions{}))
}

func (o *objectStorage) List(ctx context.Context, prefix string) ([]snapshot.Record, error) {
	records := make([]snapshot.Record, 0)
	for obj := range o.client.ListObjects(ctx, o.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, classify(obj.Err)
		}
		records = append(records, snapshot.Record{
			Key:     obj.Key,
			Size:    obj.Size,
			ModTime: obj.LastModified,
		})
	}
	return records, nil
}

func (o *objectStorage) Kind() Kind {
	return KindObjectSystem
}
