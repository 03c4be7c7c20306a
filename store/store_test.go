package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/lightorchestra/model"
	"github.com/stretchr/testify/assert"
)

var recorded = model.Session{
	{Timestamp: 1000, Value: 1000},
	{Timestamp: 1051, Value: 3500},
	{Timestamp: 1051, Value: 65535},
	{Timestamp: 1200, Value: 0},
}

func TestFileRoundTrip(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "sessions", "latest.json")
	f := NewFile(path)

	assert.NoError(f.Save(recorded))
	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal(`[[1000,1000],[1051,3500],[1051,65535],[1200,0]]`, string(data))

	loaded, err := f.Load()
	assert.NoError(err)
	assert.Equal(recorded, loaded)

	// no temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	assert.Len(entries, 1)
}

func TestFileSavesEmptySessionAsEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	assert.NoError(t, NewFile(path).Save(nil))
	loaded, err := NewFile(path).Load()
	assert.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileLoadFailures(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	_, err := NewFile(filepath.Join(dir, "missing.json")).Load()
	assert.True(errors.Is(err, os.ErrNotExist))

	garbled := filepath.Join(dir, "garbled.json")
	os.WriteFile(garbled, []byte(`{"not": "pairs"}`), 0o644)
	_, err = NewFile(garbled).Load()
	assert.Error(err)

	backwards := filepath.Join(dir, "backwards.json")
	os.WriteFile(backwards, []byte(`[[10,1],[5,1]]`), 0o644)
	_, err = NewFile(backwards).Load()
	assert.Error(err)
}

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
	err   error
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func TestDynamoRoundTrip(t *testing.T) {
	assert := assert.New(t)
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	d := &Dynamo{client: fake, table: "light-sessions", pk: "pico-1"}

	_, err := d.Load()
	assert.True(errors.Is(err, ErrNoSession))

	assert.NoError(d.Save(recorded))
	assert.Equal("1051", *fake.items["pico-1"]["Samples"].L[1].L[0].N)

	loaded, err := d.Load()
	assert.NoError(err)
	assert.Equal(recorded, loaded)
}

func TestDynamoErrorsAreWrapped(t *testing.T) {
	boom := errors.New("throttled")
	d := &Dynamo{client: &fakeDynamo{err: boom}, table: "t", pk: "p"}
	assert.True(t, errors.Is(d.Save(recorded), boom))
	_, err := d.Load()
	assert.True(t, errors.Is(err, boom))
}
