package database

import (
	"fmt"
	"log"

	"challengobi/config"
	"challengobi/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	// 自动迁移数据库表
	// challenge_participants 上的 (challenge_id, user_id) 唯一索引兜底并发重复加入
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.UserChallengeCategory{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.ChallengeInvite{},
		&models.ChallengeReaction{},
		&models.Expense{},
		&models.OCRResult{},
		&models.Badge{},
		&models.UserBadge{},
	); err != nil {
		return err
	}

	// 初始化默认勋章（仅当表为空时）
	var badgeCount int64
	DB.Model(&models.Badge{}).Count(&badgeCount)
	if badgeCount == 0 {
		defaults := models.DefaultBadges()
		if len(defaults) > 0 {
			_ = DB.Create(&defaults).Error
		}
	}

	log.Println("数据库初始化成功")
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
