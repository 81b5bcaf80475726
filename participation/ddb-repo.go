package participation

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/guregu/dynamo/v2"
)

// DynamoRecordRepo stores records in a table with hash key "email" and range
// key "classDate".
type DynamoRecordRepo struct {
	ddbClient    *dynamodb.Client
	tableName    string
	recordsTable *dynamo.Table
}

func NewDynamoRecordRepo(ddbClient *dynamodb.Client, tableName string) *DynamoRecordRepo {
	repo := &DynamoRecordRepo{
		ddbClient: ddbClient,
		tableName: tableName,
	}
	db := dynamo.NewFromIface(repo.ddbClient)
	table := db.Table(repo.tableName)
	repo.recordsTable = &table

	return repo
}

// Put is a plain PutItem without a condition: last write wins.
func (repo *DynamoRecordRepo) Put(ctx context.Context, rec Record) error {
	return repo.recordsTable.Put(rec).Run(ctx)
}

func (repo *DynamoRecordRepo) Get(ctx context.Context, email string, classDate string) (*Record, error) {
	rec := new(Record)
	err := repo.recordsTable.
		Get("email", email).
		Range("classDate", dynamo.Equal, classDate).
		One(ctx, rec)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}
