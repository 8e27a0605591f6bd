package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kchat-ai/kchat/pkg/register"
	"github.com/kchat-ai/kchat/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ChunkStore = NewChunkStore(provider)
	})
}

type ChunkStore struct {
	CommonFields
}

func NewChunkStore(provider SqlProviderAchieve) *ChunkStore {
	repo := &ChunkStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CHUNK)
	repo.SetAllColumns("id", "document_id", "content", "chunk_index", "token_count", "page_number", "created_at")
	return repo
}

func (s *ChunkStore) BatchCreate(ctx context.Context, datas []types.Chunk) error {
	if len(datas) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).Columns(s.GetAllColumns()...)
	now := time.Now().Unix()
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		query = query.Values(data.ID, data.DocumentID, data.Content, data.ChunkIndex,
			data.TokenCount, data.PageNumber, data.CreatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ChunkStore) ListByDocument(ctx context.Context, documentID string) ([]types.Chunk, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("chunk_index ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var list []types.Chunk
	if err = s.GetReplica(ctx).Select(&list, queryString, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"document_id": documentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// SearchLexical joins chunks with their indexed parent documents and matches
// content against any of the terms case-insensitively. Scores are assigned by
// the caller; lexical matches carry no distance.
func (s *ChunkStore) SearchLexical(ctx context.Context, folderIDs, terms []string, limit uint64) ([]types.RankedChunk, error) {
	if len(folderIDs) == 0 || len(terms) == 0 {
		return nil, nil
	}

	termMatch := sq.Or{}
	for _, term := range terms {
		termMatch = append(termMatch, sq.ILike{"c.content": "%" + term + "%"})
	}

	query := sq.Select("c.id", "c.document_id", "d.name AS document_name", "d.folder_id",
		"f.path AS folder_path", "c.content", "c.page_number").
		From(s.GetTable() + " c").
		Join(types.TABLE_DOCUMENT.Name() + " d ON d.id = c.document_id").
		Join(types.TABLE_FOLDER.Name() + " f ON f.id = d.folder_id").
		Where(sq.Eq{"d.status": types.DOCUMENT_STATUS_INDEXED}).
		Where(sq.Eq{"d.folder_id": folderIDs}).
		Where(termMatch).
		OrderBy("c.document_id ASC", "c.chunk_index ASC").
		Limit(limit)

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
