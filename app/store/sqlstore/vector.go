package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/pkg/register"
	"github.com/kchat-ai/kchat/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.VectorStore = NewVectorStore(provider)
	})
}

type VectorStore struct {
	CommonFields
}

func NewVectorStore(provider SqlProviderAchieve) *VectorStore {
	repo := &VectorStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CHUNK_VECTOR)
	repo.SetAllColumns("id", "document_id", "document_name", "folder_id", "folder_path",
		"content", "page_number", "embedding", "created_at")
	return repo
}

func (s *VectorStore) BatchCreate(ctx context.Context, datas []types.ChunkVector) error {
	if len(datas) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).Columns(s.GetAllColumns()...)
	now := time.Now().Unix()
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		query = query.Values(data.ID, data.DocumentID, data.DocumentName, data.FolderID, data.FolderPath,
			data.Content, data.PageNumber, data.Embedding, data.CreatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// Search runs a cosine similarity query scoped to the given folders. Score is
// 1 - cosine distance; rows under the threshold never leave the database.
func (s *VectorStore) Search(ctx context.Context, opts store.SearchVectorOptions) ([]types.RankedChunk, error) {
	if len(opts.FolderIDs) == 0 {
		return nil, nil
	}

	query := sq.Select("id", "document_id", "document_name", "folder_id", "folder_path",
		"content", "page_number").
		Column(sq.Expr("1 - (embedding <=> ?) AS score", opts.Embedding)).
		From(s.GetTable()).
		Where(sq.Eq{"folder_id": opts.FolderIDs}).
		Where(sq.Expr("1 - (embedding <=> ?) >= ?", opts.Embedding, opts.Threshold)).
		OrderByClause(sq.Expr("embedding <=> ? ASC", opts.Embedding)).
		Limit(opts.Limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var list []types.RankedChunk
	if err = s.GetReplica(ctx).Select(&list, queryString, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *VectorStore) DeleteByDocument(ctx context.Context, documentID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"document_id": documentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *VectorStore) DeleteByFolder(ctx context.Context, folderID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"folder_id": folderID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
