package dao

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/render"
	"github.com/a1s/tabula/internal/table"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Object is an S3 object or folder row.
type S3Object struct {
	Bucket       string
	Key          string
	Folder       bool
	Size         int64
	StorageClass string
	ModifiedAt   time.Time
}

// Name returns the last path component of the key.
func (o S3Object) Name() string {
	k := strings.TrimSuffix(o.Key, "/")
	if idx := strings.LastIndex(k, "/"); idx >= 0 {
		k = k[idx+1:]
	}
	if o.Folder {
		return k + "/"
	}
	return k
}

var s3ObjectFields = newFields(
	[]string{"name", "key", "folder", "size", "bytes", "class", "modified"},
	field[S3Object]{
		title:   "NAME",
		display: func(o S3Object) table.Cell { return text(o.Name()) },
		key:     func(o S3Object) table.Value { return table.String(o.Name()) },
	},
	field[S3Object]{
		title:   "KEY",
		display: func(o S3Object) table.Cell { return text(o.Key) },
		key:     func(o S3Object) table.Value { return table.String(o.Key) },
	},
	field[S3Object]{
		title:   "DIR",
		display: func(o S3Object) table.Cell { return table.CheckCell(o.Folder) },
		key:     func(o S3Object) table.Value { return table.Bool(o.Folder) },
	},
	field[S3Object]{
		title: "SIZE",
		display: func(o S3Object) table.Cell {
			if o.Folder {
				return table.NumberCell(render.MissingValue)
			}
			return table.NumberCell(render.FormatSize(o.Size))
		},
		key: func(o S3Object) table.Value { return table.Int(o.Size) },
	},
	field[S3Object]{
		title:   "BYTES",
		display: func(o S3Object) table.Cell { return table.NumberCell(strconv.FormatInt(o.Size, 10)) },
		key:     func(o S3Object) table.Value { return table.Int(o.Size) },
	},
	field[S3Object]{
		title:   "CLASS",
		display: func(o S3Object) table.Cell { return text(o.StorageClass) },
		key:     func(o S3Object) table.Value { return table.String(o.StorageClass) },
	},
	field[S3Object]{
		title:   "MODIFIED",
		display: func(o S3Object) table.Cell { return text(render.FormatTime(o.ModifiedAt)) },
		key:     func(o S3Object) table.Value { return table.Time(o.ModifiedAt) },
	},
)

// S3ObjectColumns returns the default S3 object columns.
func S3ObjectColumns() table.Columns {
	return s3ObjectFields.columns()
}

// Display returns the display form of a field.
func (o S3Object) Display(field string) (table.Cell, error) {
	return s3ObjectFields.display(o, field)
}

// SortKey returns the sort key of a field.
func (o S3Object) SortKey(field string) (table.Value, error) {
	return s3ObjectFields.sortKey(o, field)
}

// MatchesSearch returns true if the key contains the needle.
func (o S3Object) MatchesSearch(needle string) bool {
	return table.ContainsFold(o.Key, needle)
}

// S3Objects lists the objects under a bucket prefix.
type S3Objects struct {
	api       s3.ListObjectsV2APIClient
	bucket    string
	prefix    string
	recursive bool
}

// NewS3Objects returns a new object source for a "bucket" or
// "bucket/prefix/" path. Unless recursive, folders are listed as rows
// instead of being descended into.
func NewS3Objects(api s3.ListObjectsV2APIClient, path string, recursive bool) (*S3Objects, error) {
	bucket, prefix := parseListPath(path)
	if bucket == "" {
		return nil, fmt.Errorf("invalid path format, expected 'bucket' or 'bucket/prefix/', got: %s", path)
	}

	return &S3Objects{
		api:       api,
		bucket:    bucket,
		prefix:    prefix,
		recursive: recursive,
	}, nil
}

// Bucket returns the source bucket.
func (s *S3Objects) Bucket() string {
	return s.bucket
}

// List returns the objects in the source location.
func (s *S3Objects) List(ctx context.Context) ([]S3Object, error) {
	if s.api == nil {
		return nil, fmt.Errorf("failed to get S3 client")
	}

	input := &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
	}
	if !s.recursive {
		input.Delimiter = stringPtr("/")
	}
	if s.prefix != "" {
		input.Prefix = &s.prefix
	}

	paginator := s3.NewListObjectsV2Paginator(s.api, input)

	var objects []S3Object
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, aws.WrapAWSError(err, "list objects")
		}

		for _, obj := range output.Contents {
			objects = append(objects, objectToRow(obj, s.bucket))
		}
		for _, p := range output.CommonPrefixes {
			if p.Prefix != nil {
				objects = append(objects, S3Object{Bucket: s.bucket, Key: *p.Prefix, Folder: true})
			}
		}
	}

	return objects, nil
}

func objectToRow(obj types.Object, bucket string) S3Object {
	row := S3Object{
		Bucket:       bucket,
		Key:          aws.SafeString(obj.Key),
		Size:         aws.Int64Value(obj.Size),
		StorageClass: string(obj.StorageClass),
	}
	if obj.LastModified != nil {
		row.ModifiedAt = *obj.LastModified
	}

	return row
}

func parseListPath(path string) (bucket, prefix string) {
	path = strings.TrimPrefix(strings.TrimSpace(path), "s3://")
	if path == "" {
		return "", ""
	}

	bucket, prefix, _ = strings.Cut(path, "/")
	return bucket, prefix
}

func stringPtr(s string) *string {
	return &s
}
