package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func stubPresignSeams(t *testing.T) {
	t.Helper()

	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			_ = fn(&lo)
		}
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://storage.example/put/" + *in.Key}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://storage.example/get/" + *in.Key}, nil
	}
}

func TestPresignUpload_RecordsDocument(t *testing.T) {
	stubPresignSeams(t)

	rm := newFakeRepoManager()
	svc := NewDocumentService(newTestDB(t), rm, newTestConfig())

	key, url, err := svc.PresignUpload(context.Background(), "u1", "return-2025.pdf")
	if err != nil {
		t.Fatalf("PresignUpload err: %v", err)
	}

	if !strings.HasPrefix(key, "uploads/u1/") {
		t.Fatalf("key not partitioned per user: %q", key)
	}
	if url != "https://storage.example/put/"+key {
		t.Fatalf("url mismatch: %q", url)
	}

	if len(rm.submissions.docs) != 1 {
		t.Fatalf("expected one document row, got %d", len(rm.submissions.docs))
	}
	doc := rm.submissions.docs[0]
	if doc.UserID != "u1" || doc.ObjectKey != key || doc.FileName != "return-2025.pdf" {
		t.Fatalf("document row mismatch: %+v", doc)
	}
}

func TestPresignDownload(t *testing.T) {
	stubPresignSeams(t)

	svc := NewDocumentService(newTestDB(t), newFakeRepoManager(), newTestConfig())

	url, err := svc.PresignDownload(context.Background(), "uploads/u1/2025/6/1/abc")
	if err != nil {
		t.Fatalf("PresignDownload err: %v", err)
	}
	if url != "https://storage.example/get/uploads/u1/2025/6/1/abc" {
		t.Fatalf("url mismatch: %q", url)
	}
}

func TestPresignUpload_ConfigLoadError(t *testing.T) {
	stubPresignSeams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	svc := NewDocumentService(newTestDB(t), newFakeRepoManager(), newTestConfig())

	_, _, err := svc.PresignUpload(context.Background(), "u1", "f.pdf")
	if err == nil || err.Error() != "load-fail" {
		t.Fatalf("want load-fail, got %v", err)
	}
}

func TestSubmissionService_CreateAndList(t *testing.T) {
	rm := newFakeRepoManager()
	svc := NewSubmissionService(newTestDB(t), rm)
	ctx := context.Background()

	payload := json.RawMessage(`{"question":"GST registration for a partnership"}`)
	sub, err := svc.Create(ctx, "u1", "gst", payload)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if sub.ID == "" || sub.UserID != "u1" || sub.Service != "gst" {
		t.Fatalf("submission mismatch: %+v", sub)
	}

	if _, err := svc.Create(ctx, "u2", "itr", json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Create err: %v", err)
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(all))
	}

	gst, err := svc.List(ctx, "gst")
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(gst) != 1 || gst[0].Service != "gst" {
		t.Fatalf("service filter mismatch: %+v", gst)
	}
}
