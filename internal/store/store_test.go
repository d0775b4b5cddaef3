package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/casetrackapp/backend/internal/auth"
	"github.com/casetrackapp/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormWithMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db, PreferSimpleProtocol: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open error: %v", err)
	}
	return gdb, mock, db
}

func userRows(user models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password", "name", "tokens_valid_from", "created_at", "updated_at"}).
		AddRow(user.ID, user.Email, user.Password, user.Name, user.TokensValidFrom, user.CreatedAt, user.UpdatedAt)
}

func TestUserStore_FindByEmail(t *testing.T) {
	gdb, mock, db := newGormWithMock(t)
	defer db.Close()
	s := NewUserStore(gdb)

	want := models.User{ID: 1, Email: "a@x.com", Password: "hash", Name: "A"}
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(userRows(want))

	got, err := s.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 1 || got.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserStore_FindByEmail_NotFound(t *testing.T) {
	gdb, mock, db := newGormWithMock(t)
	defer db.Close()
	s := NewUserStore(gdb)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FindByEmail(context.Background(), "missing@x.com")
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected auth.ErrNotFound, got %v", err)
	}
}

func TestUserStore_FindByEmail_DBError(t *testing.T) {
	gdb, mock, db := newGormWithMock(t)
	defer db.Close()
	s := NewUserStore(gdb)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnError(errors.New("db down"))

	_, err := s.FindByEmail(context.Background(), "a@x.com")
	if err == nil || errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestUserStore_Create(t *testing.T) {
	gdb, mock, db := newGormWithMock(t)
	defer db.Close()
	s := NewUserStore(gdb)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	user := &models.User{Email: "a@x.com", Password: "hash", Name: "A", TokensValidFrom: time.Now().UTC().Truncate(time.Second)}
	if err := s.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 5 {
		t.Fatalf("expected id 5, got %d", user.ID)
	}
}

func TestUserStore_UpdateTokensValidFrom(t *testing.T) {
	gdb, mock, db := newGormWithMock(t)
	defer db.Close()
	s := NewUserStore(gdb)

	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cutoff := time.Now().UTC().Truncate(time.Second)
	if err := s.UpdateTokensValidFrom(context.Background(), 5, cutoff); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenStore_FindByToken_PreloadsUser(t *testing.T) {
	gdb, mock, db := newGormWithMock(t)
	defer db.Close()
	s := NewTokenStore(gdb)

	expires := time.Now().Add(time.Hour)
	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens" WHERE token = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "user_id", "expires_at", "revoked", "created_at"}).
			AddRow(3, "tok-abc", 5, expires, false, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WillReturnRows(userRows(models.User{ID: 5, Email: "a@x.com"}))

	record, err := s.FindByToken(context.Background(), "tok-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != 3 || record.UserID != 5 {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.User.Email != "a@x.com" {
		t.Fatalf("owner not preloaded: %+v", record.User)
	}
}

func TestTokenStore_FindByToken_NotFound(t *testing.T) {
	gdb, mock, db := newGormWithMock(t)
	defer db.Close()
	s := NewTokenStore(gdb)

	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens" WHERE token = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FindByToken(context.Background(), "missing")
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected auth.ErrNotFound, got %v", err)
	}
}

func TestTokenStore_Create(t *testing.T) {
	gdb, mock, db := newGormWithMock(t)
	defer db.Close()
	s := NewTokenStore(gdb)

	mock.ExpectQuery(`INSERT INTO "refresh_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	record := &models.RefreshToken{Token: "tok-abc", UserID: 5, ExpiresAt: time.Now().Add(time.Hour)}
	if err := s.Create(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != 9 {
		t.Fatalf("expected id 9, got %d", record.ID)
	}
}

func TestTokenStore_Revoke(t *testing.T) {
	gdb, mock, db := newGormWithMock(t)
	defer db.Close()
	s := NewTokenStore(gdb)

	mock.ExpectExec(`UPDATE "refresh_tokens" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Revoke(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenStore_RevokeAllForUser(t *testing.T) {
	gdb, mock, db := newGormWithMock(t)
	defer db.Close()
	s := NewTokenStore(gdb)

	mock.ExpectExec(`UPDATE "refresh_tokens" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := s.RevokeAllForUser(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
