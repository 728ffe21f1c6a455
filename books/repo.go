package books

type Repo interface {
	// List returns all books in ascending ID order.
	List() ([]Book, error)
	GetByID(id int) (*Book, error)

	// Create assigns the next sequential ID and stores the book.
	Create(book Book) (*Book, error)
	Delete(id int) error
}
