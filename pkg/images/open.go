package images

import (
	"context"
	"fmt"

	kcs "github.com/opst/landmarks/pkg/configs/server"
)

// Open the store configured.
func Open(ctx context.Context, conf kcs.MediaConfig) (Store, error) {
	switch conf.Backend {
	case kcs.MediaLocal, "":
		return Local(conf.Root, conf.URLPrefix), nil
	case kcs.MediaMinio:
		m := conf.Minio
		return Minio(ctx, MinioConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			UseSSL:    m.UseSSL,
			Bucket:    m.Bucket,
			Region:    m.Region,
			PublicURL: m.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown media backend: %s", conf.Backend)
	}
}
