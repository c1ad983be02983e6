package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Catalog tracks the latest published snapshot per sieve name in DynamoDB.
//
// S3 has no compare-and-swap, so a plain "latest" object key could be
// silently overwritten by a concurrent publisher. The catalog provides the
// missing atomicity: each publish writes a new, monotonically increasing
// version row with a conditional put, and readers resolve the highest
// version to an S3 key.
//
// Table schema:
//   - Partition key: sieve_name (string)
//   - Sort key: version (number)
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name sievego-snapshots \
//	  --attribute-definitions AttributeName=sieve_name,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=sieve_name,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type Catalog struct {
	client    DDBClient
	tableName string
}

// DDBClient is the subset of the DynamoDB API the catalog uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Entry is one published snapshot version.
type Entry struct {
	// Key is the S3 object key holding the snapshot blob.
	Key string
	// Range is the sieve range recorded at publish time.
	Range uint64
	// Checksum is the CRC32 of the snapshot blob.
	Checksum uint32
	// Version is the monotonically increasing publish version.
	Version uint64
}

var (
	// ErrConcurrentPublish is returned when another publisher committed the
	// same version first; retry to publish on top of their version.
	ErrConcurrentPublish = errors.New("s3: concurrent snapshot publish detected")

	// ErrNoSnapshot is returned when no version has been published for a name.
	ErrNoSnapshot = errors.New("s3: no published snapshot")
)

// NewCatalog creates a snapshot catalog using the given DynamoDB table.
func NewCatalog(client DDBClient, tableName string) *Catalog {
	return &Catalog{
		client:    client,
		tableName: tableName,
	}
}

// Latest returns the most recently published entry for the given sieve name.
func (c *Catalog) Latest(ctx context.Context, name string) (Entry, error) {
	resp, err := c.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("sieve_name = :name"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: name},
		},
		ScanIndexForward: aws.Bool(false), // descending by version
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return Entry{}, fmt.Errorf("s3: catalog query failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return Entry{}, ErrNoSnapshot
	}

	return decodeEntry(resp.Items[0])
}

// Publish records a new snapshot version for name, on top of the latest one.
// Returns the committed entry, or ErrConcurrentPublish if another publisher
// won the race for the next version.
func (c *Catalog) Publish(ctx context.Context, name string, e Entry) (Entry, error) {
	current, err := c.Latest(ctx, name)
	if err != nil && !errors.Is(err, ErrNoSnapshot) {
		return Entry{}, err
	}

	e.Version = current.Version + 1

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"sieve_name":   &types.AttributeValueMemberS{Value: name},
			"version":      &types.AttributeValueMemberN{Value: strconv.FormatUint(e.Version, 10)},
			"snapshot_key": &types.AttributeValueMemberS{Value: e.Key},
			"sieve_range":  &types.AttributeValueMemberN{Value: strconv.FormatUint(e.Range, 10)},
			"checksum":     &types.AttributeValueMemberN{Value: strconv.FormatUint(uint64(e.Checksum), 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return Entry{}, ErrConcurrentPublish
		}
		return Entry{}, fmt.Errorf("s3: catalog publish failed: %w", err)
	}

	return e, nil
}

func decodeEntry(item map[string]types.AttributeValue) (Entry, error) {
	var e Entry

	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return Entry{}, errors.New("s3: invalid version attribute in catalog")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("s3: failed to parse catalog version: %w", err)
	}
	e.Version = version

	keyAttr, ok := item["snapshot_key"].(*types.AttributeValueMemberS)
	if !ok {
		return Entry{}, errors.New("s3: invalid snapshot_key attribute in catalog")
	}
	e.Key = keyAttr.Value

	if rangeAttr, ok := item["sieve_range"].(*types.AttributeValueMemberN); ok {
		if e.Range, err = strconv.ParseUint(rangeAttr.Value, 10, 64); err != nil {
			return Entry{}, fmt.Errorf("s3: failed to parse catalog range: %w", err)
		}
	}

	if crcAttr, ok := item["checksum"].(*types.AttributeValueMemberN); ok {
		crc, err := strconv.ParseUint(crcAttr.Value, 10, 32)
		if err != nil {
			return Entry{}, fmt.Errorf("s3: failed to parse catalog checksum: %w", err)
		}
		e.Checksum = uint32(crc)
	}

	return e, nil
}
