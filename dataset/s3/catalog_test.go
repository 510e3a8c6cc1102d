package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/neogo/dataset"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
type mockDDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue // key -> item
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	baseURI := params.Item["base_uri"].(*types.AttributeValueMemberS).Value
	version := params.Item["version"].(*types.AttributeValueMemberN).Value
	key := baseURI + ":" + version

	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(version)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	baseURI := params.ExpressionAttributeValues[":uri"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["base_uri"].(*types.AttributeValueMemberS).Value == baseURI {
			items = append(items, item)
		}
	}

	// Sort descending by numeric version
	for i := 0; i < len(items)-1; i++ {
		for j := i + 1; j < len(items); j++ {
			vi := versionOf(items[i])
			vj := versionOf(items[j])
			if vi < vj {
				items[i], items[j] = items[j], items[i]
			}
		}
	}

	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}

	return &dynamodb.QueryOutput{Items: items}, nil
}

func versionOf(item map[string]types.AttributeValue) uint64 {
	var v uint64
	fmt.Sscanf(item["version"].(*types.AttributeValueMemberN).Value, "%d", &v)
	return v
}

func newTestCatalog(client Client, ddb DDBClient) *Catalog {
	return NewCatalog(client, ddb, "test-bucket", "neodata/", "neogo-snapshots")
}

// readCompressed opens a snapshot key through the catalog's source and
// decompresses it.
func readCompressed(t *testing.T, cat *Catalog, key string) string {
	t.Helper()

	rc, err := cat.Source().Open(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()

	zr, err := zstd.NewReader(rc)
	require.NoError(t, err)
	defer zr.Close()

	data, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(data)
}

func TestCatalogFirstPublish(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3Client()
	cat := newTestCatalog(client, newMockDDBClient())

	snap, err := cat.Publish(ctx, strings.NewReader("pdes,name\n"), strings.NewReader(`{"data": []}`))
	require.NoError(t, err)

	assert.EqualValues(t, 1, snap.Version)
	assert.True(t, strings.HasPrefix(snap.NEOKey, "v000001-"), "NEOKey = %s", snap.NEOKey)
	assert.True(t, strings.HasSuffix(snap.NEOKey, "/neos.csv.zst"), "NEOKey = %s", snap.NEOKey)
	assert.True(t, strings.HasSuffix(snap.CADKey, "/cad.json.zst"), "CADKey = %s", snap.CADKey)
	assert.Equal(t, path.Dir(snap.NEOKey), path.Dir(snap.CADKey))
	assert.False(t, snap.CreatedAt.IsZero())

	// Objects land under the catalog prefix.
	assert.True(t, client.has("test-bucket", "neodata/"+snap.NEOKey))
	assert.True(t, client.has("test-bucket", "neodata/"+snap.CADKey))

	// And round-trip through the source.
	assert.Equal(t, "pdes,name\n", readCompressed(t, cat, snap.NEOKey))
	assert.Equal(t, `{"data": []}`, readCompressed(t, cat, snap.CADKey))
}

func TestCatalogLatest(t *testing.T) {
	ctx := context.Background()
	cat := newTestCatalog(newFakeS3Client(), newMockDDBClient())

	for i := 1; i <= 3; i++ {
		_, err := cat.Publish(ctx, strings.NewReader(fmt.Sprintf("neos-%d", i)), strings.NewReader(fmt.Sprintf("cad-%d", i)))
		require.NoError(t, err)
	}

	snap, err := cat.Latest(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 3, snap.Version)
	assert.True(t, strings.HasPrefix(snap.NEOKey, "v000003-"), "NEOKey = %s", snap.NEOKey)
	assert.Equal(t, "neos-3", readCompressed(t, cat, snap.NEOKey))
	assert.Equal(t, "cad-3", readCompressed(t, cat, snap.CADKey))
}

func TestCatalogLatestNotFound(t *testing.T) {
	cat := newTestCatalog(newFakeS3Client(), newMockDDBClient())

	_, err := cat.Latest(context.Background())
	require.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestCatalogConcurrentPublishers(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3Client()
	ddb := newMockDDBClient()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	conflicts := 0

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			cat := newTestCatalog(client, ddb)
			_, err := cat.Publish(ctx, strings.NewReader(fmt.Sprintf("neos-%d", id)), strings.NewReader(fmt.Sprintf("cad-%d", id)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConcurrentPublish):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()
	assert.Greater(t, successes, 0, "at least one publisher should succeed")
	t.Logf("successes: %d, conflicts: %d", successes, conflicts)

	// The committed row must reference the committer's own uploads: racing
	// losers upload into their own directories and cannot clobber them.
	cat := newTestCatalog(client, ddb)
	snap, err := cat.Latest(ctx)
	require.NoError(t, err)

	neos := readCompressed(t, cat, snap.NEOKey)
	cad := readCompressed(t, cat, snap.CADKey)
	require.True(t, strings.HasPrefix(neos, "neos-"), "payload = %s", neos)
	assert.Equal(t, strings.TrimPrefix(neos, "neos-"), strings.TrimPrefix(cad, "cad-"))
}

func TestCatalogIsolatedNamespaces(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3Client()
	ddb := newMockDDBClient()

	cat1 := NewCatalog(client, ddb, "test-bucket", "alpha/", "neogo-snapshots")
	cat2 := NewCatalog(client, ddb, "test-bucket", "beta/", "neogo-snapshots")

	_, err := cat1.Publish(ctx, strings.NewReader("neos-alpha"), strings.NewReader("cad-alpha"))
	require.NoError(t, err)
	_, err = cat2.Publish(ctx, strings.NewReader("neos-beta"), strings.NewReader("cad-beta"))
	require.NoError(t, err)
	_, err = cat2.Publish(ctx, strings.NewReader("neos-beta2"), strings.NewReader("cad-beta2"))
	require.NoError(t, err)

	snap1, err := cat1.Latest(ctx)
	require.NoError(t, err)
	snap2, err := cat2.Latest(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 1, snap1.Version)
	assert.EqualValues(t, 2, snap2.Version)
	assert.Equal(t, "neos-alpha", readCompressed(t, cat1, snap1.NEOKey))
	assert.Equal(t, "neos-beta2", readCompressed(t, cat2, snap2.NEOKey))
}
