package content

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// fakeS3 serves objects from a map.
type fakeS3 struct {
	objects map[string]string
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*params.Key]
	if !ok {
		return nil, &noSuchKeyError{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

// noSuchKeyError mimics the service's missing-object API error.
type noSuchKeyError struct{}

func (e *noSuchKeyError) Error() string        { return "NoSuchKey: the key does not exist" }
func (e *noSuchKeyError) ErrorCode() string    { return "NoSuchKey" }
func (e *noSuchKeyError) ErrorMessage() string { return "the key does not exist" }

func (e *noSuchKeyError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func newS3Fixture() *S3 {
	return newS3(&fakeS3{objects: map[string]string{
		"site/home.html": "<h1>Home</h1>",
		"site/data.json": `{"title":"Fern"}`,
	}}, "bucket", "site/")
}

func TestS3Fragment(t *testing.T) {
	l := newS3Fixture()
	raw, err := l.Fragment(context.Background(), "home")
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	if string(raw) != "<h1>Home</h1>" {
		t.Errorf("fragment body = %q", raw)
	}
}

func TestS3FragmentMissing(t *testing.T) {
	l := newS3Fixture()
	_, err := l.Fragment(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestS3FragmentRejectsTraversal(t *testing.T) {
	l := newS3Fixture()
	if _, err := l.Fragment(context.Background(), "../secret"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestS3Data(t *testing.T) {
	l := newS3Fixture()
	raw, err := l.Data(context.Background())
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if string(raw) != `{"title":"Fern"}` {
		t.Errorf("payload = %q", raw)
	}
}

func TestS3WithDataKey(t *testing.T) {
	l := newS3(&fakeS3{objects: map[string]string{
		"elsewhere.json": `{}`,
	}}, "bucket", "site/").WithDataKey("elsewhere.json")
	if _, err := l.Data(context.Background()); err != nil {
		t.Errorf("Data with custom key: %v", err)
	}
}
