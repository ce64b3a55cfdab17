package client

import "sync"

// Cache - список задач в памяти клиента. Мутации попадают сюда
// только после успешного ответа сервера, при ошибке кэш не меняется
type Cache struct {
	mtx   sync.RWMutex
	tasks []Task
}

func NewCache() *Cache {
	return &Cache{tasks: []Task{}}
}

// Load заменяет кэш свежим списком с сервера
func (c *Cache) Load(tasks []Task) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.tasks = make([]Task, len(tasks))
	copy(c.tasks, tasks)
}

// Upsert вливает каноническое представление из ответа сервера:
// по известному id задача заменяется, новая добавляется в конец
func (c *Cache) Upsert(t Task) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	for i := range c.tasks {
		if c.tasks[i].ID == t.ID {
			c.tasks[i] = t
			return
		}
	}
	c.tasks = append(c.tasks, t)
}

func (c *Cache) Remove(id int64) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}

func (c *Cache) Tasks() []Task {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	tasks := make([]Task, len(c.tasks))
	copy(tasks, c.tasks)
	return tasks
}

// View возвращает локально отфильтрованный срез кэша
func (c *Cache) View(state FilterState) []Task {
	return ApplyFilter(c.Tasks(), state)
}
