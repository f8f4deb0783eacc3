package handler

import (
	"unicert/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	adminHandler        *AdminHandler
	templateHandler     *TemplateHandler
	certificateHandler  *CertificateHandler
	verificationHandler *VerificationHandler
	documentHandler     *DocumentHandler
	reportHandler       *ReportHandler
	backupHandler       *BackupHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	templateUseCase *usecase.TemplateUseCase,
	certificateUseCase *usecase.CertificateUseCase,
	documentUseCase *usecase.DocumentUseCase,
	reportUseCase *usecase.ReportUseCase,
	backupUseCase *usecase.BackupUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	adminHandler = NewAdminHandler(userUseCase)
	templateHandler = NewTemplateHandler(templateUseCase)
	certificateHandler = NewCertificateHandler(certificateUseCase)
	verificationHandler = NewVerificationHandler(certificateUseCase)
	documentHandler = NewDocumentHandler(documentUseCase)
	reportHandler = NewReportHandler(reportUseCase)
	backupHandler = NewBackupHandler(backupUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func GetTemplateHandler() *TemplateHandler {
	return templateHandler
}

func GetCertificateHandler() *CertificateHandler {
	return certificateHandler
}

func GetVerificationHandler() *VerificationHandler {
	return verificationHandler
}

func GetDocumentHandler() *DocumentHandler {
	return documentHandler
}

func GetReportHandler() *ReportHandler {
	return reportHandler
}

func GetBackupHandler() *BackupHandler {
	return backupHandler
}
