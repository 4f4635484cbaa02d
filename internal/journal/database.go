package journal

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	c "github.com/life-stream-dev/life-stream-go-lcu-client/internal/config"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/logger"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultOperationTimeout = 5 * time.Second

// DBStore 将事件记录写入 MongoDB
type DBStore struct {
	client           *mongo.Client
	collection       *mongo.Collection
	operationTimeout time.Duration
}

// databaseURL 编码用户名与密码中的特殊字符
func databaseURL(config c.Config) string {
	j := config.Journal
	if j.Username == "" {
		return fmt.Sprintf("mongodb://%s:%d/", j.Host, j.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%d/?authSource=admin",
		url.QueryEscape(j.Username), url.QueryEscape(j.Password),
		j.Host, j.Port,
	)
}

func clientOptions(config c.Config) *options.ClientOptions {
	j := config.Journal
	opts := options.Client().ApplyURI(databaseURL(config)).SetAppName(config.AppName)
	if j.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(j.MaxPoolSize)
	}
	opts.SetConnectTimeout(utils.ParseStringTimeOr(j.ConnectTimeout, 10*time.Second))
	if j.UseTLS {
		opts.SetTLSConfig(&tls.Config{})
	}
	// 连接池监控
	opts.SetPoolMonitor(&event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			switch evt.Type {
			case event.ConnectionCreated:
				logger.DebugF("Journal database connection created: %s", evt.Address)
			case event.ConnectionClosed:
				logger.DebugF("Journal database connection closed: %s, reason: %s", evt.Address, evt.Reason)
			}
		},
	})
	return opts
}

// Connect 连接数据库并创建按事件名与时间排序的索引
func Connect(ctx context.Context, config c.Config) (*DBStore, error) {
	logger.DebugF("Connecting to journal database...")
	opts := clientOptions(config)

	connectCtx, cancel := context.WithTimeout(ctx, utils.ParseStringTimeOr(config.Journal.ConnectTimeout, 10*time.Second))
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("error occured while connecting to journal database: %w", err)
	}

	// 验证连接
	if err = client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("error occured while pinging journal database: %w", err)
	}

	collection := client.Database(config.Journal.Database).Collection(config.Journal.Collection)
	_, err = collection.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event", Value: 1}, {Key: "received_at", Value: -1}},
		Options: options.Index().SetName("events_event_received_at"),
	})
	if err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("error occured while creating journal indexes: %w", err)
	}

	return &DBStore{
		client:           client,
		collection:       collection,
		operationTimeout: utils.ParseStringTimeOr(config.Journal.OperationTimeout, defaultOperationTimeout),
	}, nil
}

func (ds *DBStore) Save(ctx context.Context, entry *Entry) error {
	if entry.Event == "" {
		return ErrEventNameEmpty
	}
	ctx, cancel := context.WithTimeout(ctx, ds.operationTimeout)
	defer cancel()

	if _, err := ds.collection.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("unique key conflicts: %w", err)
		}
		return fmt.Errorf("database operation failed: %w", err)
	}
	return nil
}

func (ds *DBStore) Recent(ctx context.Context, eventName string, limit int) ([]*Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, ds.operationTimeout)
	defer cancel()

	filter := bson.D{}
	if eventName != "" {
		filter = bson.D{{Key: "event", Value: eventName}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "received_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	startTime := time.Now()
	cursor, err := ds.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("database operation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*Entry
	if err := cursor.All(ctx, &entries); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("database operation failed: %w", err)
	}
	logger.DebugF("journal query cost: %v", time.Since(startTime))
	return entries, nil
}

func (ds *DBStore) Close(ctx context.Context) error {
	logger.InfoF("Closing journal database connection")
	ctx, cancel := context.WithTimeout(ctx, ds.operationTimeout)
	defer cancel()
	return ds.client.Disconnect(ctx)
}
