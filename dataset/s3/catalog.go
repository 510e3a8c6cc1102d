package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/neogo/dataset"
	"github.com/klauspost/compress/zstd"
)

// ErrConcurrentPublish is returned when another publisher committed the same
// version first. The caller may retry; the next attempt picks up the new
// latest version.
var ErrConcurrentPublish = errors.New("concurrent publish detected")

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Snapshot identifies one published dataset version. The keys are relative
// to the catalog's prefix, so a Source built over the same bucket and prefix
// opens them directly.
type Snapshot struct {
	Version   uint64
	NEOKey    string
	CADKey    string
	CreatedAt time.Time
}

// Catalog publishes and resolves versioned dataset snapshots. Payloads live
// in S3 under versioned keys; DynamoDB acts as the commit log, providing the
// atomic compare-and-swap semantics that S3 lacks, so multiple publishers
// can safely coordinate without data loss.
//
// Table schema:
//   - Partition key: base_uri (string) - "s3://bucket/prefix"
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name neogo-snapshots \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type Catalog struct {
	client    Client
	ddbClient DDBClient
	bucket    string
	prefix    string
	tableName string
	baseURI   string // partition key
}

// NewCatalog creates a catalog over the given bucket, prefix and DynamoDB
// table. The partition key is derived from bucket and prefix, so distinct
// prefixes in the same table version independently.
func NewCatalog(client Client, ddbClient DDBClient, bucket, rootPrefix, tableName string) *Catalog {
	return &Catalog{
		client:    client,
		ddbClient: ddbClient,
		bucket:    bucket,
		prefix:    rootPrefix,
		tableName: tableName,
		baseURI:   "s3://" + path.Join(bucket, rootPrefix),
	}
}

// Source returns a dataset source rooted at the catalog's prefix. Snapshot
// keys resolve against it.
func (c *Catalog) Source() *Source {
	return NewSource(c.client, c.bucket, c.prefix)
}

// Latest resolves the most recently committed snapshot. It returns an error
// satisfying errors.Is(err, dataset.ErrNotFound) when nothing has been
// published yet.
func (c *Catalog) Latest(ctx context.Context) (*Snapshot, error) {
	snap, err := c.latest(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: no snapshot published under %s", dataset.ErrNotFound, c.baseURI)
	}
	return snap, nil
}

// Publish uploads both dataset payloads zstd-compressed, then atomically
// commits the next version. Every attempt uploads into its own directory,
// so a publisher that loses the version race cannot clobber the winner's
// objects; its uploads stay behind unreferenced. On a lost race Publish
// returns ErrConcurrentPublish and the caller may retry.
func (c *Catalog) Publish(ctx context.Context, neos, approaches io.Reader) (*Snapshot, error) {
	current, err := c.latest(ctx)
	if err != nil {
		return nil, err
	}

	var version uint64 = 1
	if current != nil {
		version = current.Version + 1
	}

	dir := fmt.Sprintf("v%06d-%08x", version, rand.Uint32())
	snap := &Snapshot{
		Version:   version,
		NEOKey:    path.Join(dir, "neos.csv.zst"),
		CADKey:    path.Join(dir, "cad.json.zst"),
		CreatedAt: time.Now().UTC(),
	}

	if err := c.upload(ctx, snap.NEOKey, neos); err != nil {
		return nil, err
	}
	if err := c.upload(ctx, snap.CADKey, approaches); err != nil {
		return nil, err
	}

	if err := c.commit(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

// latest queries DynamoDB for the newest committed snapshot. It returns
// (nil, nil) when the partition is empty.
func (c *Catalog) latest(ctx context.Context) (*Snapshot, error) {
	resp, err := c.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: c.baseURI},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog table: %w", err)
	}

	if len(resp.Items) == 0 {
		return nil, nil
	}

	return snapshotFromItem(resp.Items[0])
}

// commit writes the snapshot row with a conditional put so that only one
// publisher can own a given version.
func (c *Catalog) commit(ctx context.Context, snap *Snapshot) error {
	_, err := c.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":   &types.AttributeValueMemberS{Value: c.baseURI},
			"version":    &types.AttributeValueMemberN{Value: strconv.FormatUint(snap.Version, 10)},
			"neo_key":    &types.AttributeValueMemberS{Value: snap.NEOKey},
			"cad_key":    &types.AttributeValueMemberS{Value: snap.CADKey},
			"created_at": &types.AttributeValueMemberS{Value: snap.CreatedAt.Format(time.RFC3339)},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentPublish
		}
		return fmt.Errorf("failed to commit snapshot to catalog table: %w", err)
	}

	return nil
}

// upload compresses r with zstd and streams it to the versioned key. The
// compressor runs in a goroutine feeding a pipe; the manager uploader
// consumes the read end, so nothing is buffered in full.
func (c *Catalog) upload(ctx context.Context, name string, r io.Reader) error {
	pr, pw := io.Pipe()

	go func() {
		zw, err := zstd.NewWriter(pw)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(zw, r); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(zw.Close())
	}()

	uploader := manager.NewUploader(c.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(name)),
		Body:   pr,
	})
	if err != nil {
		// Unblock the compressor if the upload died mid-stream.
		_ = pr.CloseWithError(err)
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}

	return nil
}

func (c *Catalog) key(name string) string {
	return path.Join(c.prefix, name)
}

func snapshotFromItem(item map[string]types.AttributeValue) (*Snapshot, error) {
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return nil, errors.New("invalid version attribute in catalog item")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot version: %w", err)
	}

	neoAttr, ok := item["neo_key"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("invalid neo_key attribute in catalog item")
	}
	cadAttr, ok := item["cad_key"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("invalid cad_key attribute in catalog item")
	}

	snap := &Snapshot{
		Version: version,
		NEOKey:  neoAttr.Value,
		CADKey:  cadAttr.Value,
	}
	if created, ok := item["created_at"].(*types.AttributeValueMemberS); ok {
		if t, err := time.Parse(time.RFC3339, created.Value); err == nil {
			snap.CreatedAt = t
		}
	}

	return snap, nil
}
