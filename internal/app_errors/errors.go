package app_errors

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrTokenNotFound = errors.New("token not found")
var ErrTokenExpired = errors.New("token expired")

var ErrCategoryNotFound = errors.New("category not found")
var ErrCertificationNotFound = errors.New("certification not found")
var ErrCertificationHidden = errors.New("certification is not published")
var ErrAlreadyFavorited = errors.New("certification already favorited")
var ErrFavoriteNotFound = errors.New("favorite not found")
var ErrNotImage = errors.New("not image")
var ErrFileSize = errors.New("file size error")
var ErrImageNotFound = errors.New("image not found")

var ErrCourseNotFound = errors.New("course not found")
var ErrModuleNotFound = errors.New("module not found")
var ErrLessonNotFound = errors.New("lesson not found")
var ErrQuizNotFound = errors.New("quiz not found")
var ErrDuplicateModule = errors.New("module with this order already exists in the course")
var ErrDuplicateLesson = errors.New("lesson with this order already exists in the course")
var ErrFinalQuizExists = errors.New("course already has a final quiz")
var ErrModuleQuizExists = errors.New("module already has a quiz")
var ErrInvalidQuestion = errors.New("invalid quiz question")

var ErrNotEnrolled = errors.New("user is not enrolled in course")
var ErrAlreadyEnrolled = errors.New("user is already enrolled in course")
var ErrModuleLocked = errors.New("module is locked")
var ErrQuizLocked = errors.New("quiz is locked")
var ErrQuizEmpty = errors.New("quiz has no questions")
var ErrCourseNotCompleted = errors.New("course is not fully completed")
var ErrCertificateNotFound = errors.New("certificate not found")
var ErrCertificateExists = errors.New("certificate already exists")
