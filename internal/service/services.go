package service

import (
	"certifree/internal/service/auth"
	"certifree/internal/service/catalog/favorite"
	catalogmanagement "certifree/internal/service/catalog/management"
	"certifree/internal/service/catalog/query"
	"certifree/internal/service/course/certificate"
	"certifree/internal/service/course/content"
	"certifree/internal/service/course/enrollment"
	coursemanagement "certifree/internal/service/course/management"
)

type Collection struct {
	*auth.AuthService
	*query.CatalogQueryService
	*favorite.FavoriteService
	*catalogmanagement.CatalogManagementService
	*content.ContentService
	*coursemanagement.CourseManagementService
	*enrollment.EnrollmentService
	*certificate.CertificateService
}
