package service

import (
	"testing"

	"challengobi/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndAwardBadges(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 用户累计认证 7 天、节约 15000 元
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nickname", "total_saving", "challenge_streak"}).
			AddRow(20, "节约达人", 15000, 7))
	mock.ExpectQuery("SELECT (.+) FROM `badges`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "badge_type", "required_date", "required_money"}).
			AddRow(1, "三日坚持", models.BadgeTypeStreak, 3, nil).
			AddRow(2, "一周达人", models.BadgeTypeStreak, 7, nil).
			AddRow(3, "半月铁人", models.BadgeTypeStreak, 14, nil).
			AddRow(4, "小有积蓄", models.BadgeTypePoint, nil, 10000))
	// 三日坚持已拥有
	mock.ExpectQuery("SELECT `badge_id` FROM `user_badges`").
		WillReturnRows(sqlmock.NewRows([]string{"badge_id"}).AddRow(1))

	// 新颁发：一周达人（7>=7）、小有积蓄（15000>=10000）；半月铁人未达标
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `user_badges`").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `user_badges`").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	awarded, err := CheckAndAwardBadges(db, 20)
	require.NoError(t, err)
	require.Len(t, awarded, 2)
	assert.Equal(t, "一周达人", awarded[0].Name)
	assert.Equal(t, "小有积蓄", awarded[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndAwardBadges_UserNotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := CheckAndAwardBadges(db, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBadgeAchieved(t *testing.T) {
	user := &models.User{ChallengeStreak: 14, TotalSaving: 99999}

	streak14 := &models.Badge{BadgeType: models.BadgeTypeStreak, RequiredDate: intPtrForTest(14)}
	streak28 := &models.Badge{BadgeType: models.BadgeTypeStreak, RequiredDate: intPtrForTest(28)}
	point10w := &models.Badge{BadgeType: models.BadgeTypePoint, RequiredMoney: intPtrForTest(100000)}
	hidden := &models.Badge{BadgeType: models.BadgeTypeHidden}

	assert.True(t, badgeAchieved(user, streak14))
	assert.False(t, badgeAchieved(user, streak28))
	assert.False(t, badgeAchieved(user, point10w), "差 1 元也不颁发")
	assert.False(t, badgeAchieved(user, hidden))

	// 门槛缺失的脏数据不颁发
	assert.False(t, badgeAchieved(user, &models.Badge{BadgeType: models.BadgeTypeStreak}))
}

func intPtrForTest(v int) *int { return &v }
