package source

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/io"
	"github.com/matzehuels/kintree/pkg/tree"
)

// Mongo loads one nested tree document from a MongoDB collection.
type Mongo struct {
	// URI is the connection string without database, collection or id.
	URI        string
	Database   string
	Collection string
	// ID selects the document; empty selects the first one.
	ID string
}

func parseMongo(u *url.URL) (*Mongo, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, kerrors.New(kerrors.ErrCodeInvalidSource, "mongodb source must name /database/collection")
	}
	for _, p := range parts {
		if err := kerrors.ValidateIdentifier(p); err != nil {
			return nil, err
		}
	}

	q := u.Query()
	id := q.Get("id")
	q.Del("id")

	conn := *u
	conn.Path = "/"
	conn.RawQuery = q.Encode()
	return &Mongo{URI: conn.String(), Database: parts[0], Collection: parts[1], ID: id}, nil
}

func (m *Mongo) Load(ctx context.Context) (*tree.Record, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URI))
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeNetwork, err, "connect mongodb")
	}
	defer client.Disconnect(context.WithoutCancel(ctx))

	var rec tree.Record
	err = client.Database(m.Database).Collection(m.Collection).FindOne(ctx, m.filter()).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, kerrors.New(kerrors.ErrCodeNotFound, "no tree document in %s.%s", m.Database, m.Collection)
	}
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeNetwork, err, "find tree document")
	}
	if err := io.Validate(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *Mongo) filter() bson.M {
	if m.ID == "" {
		return bson.M{}
	}
	if oid, err := primitive.ObjectIDFromHex(m.ID); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": m.ID}
}

func (m *Mongo) String() string {
	s := m.URI
	if u, err := url.Parse(m.URI); err == nil {
		s = u.Redacted()
	}
	s = strings.TrimSuffix(strings.SplitN(s, "?", 2)[0], "/") + "/" + m.Database + "/" + m.Collection
	if m.ID != "" {
		s += "?id=" + m.ID
	}
	return s
}
